package stor

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"gorm.io/gorm"
)

type GormReferenceStor struct {
	db *gorm.DB
}

func NewGormReferenceStor(db *gorm.DB) *GormReferenceStor {
	return &GormReferenceStor{db: db}
}

func (s *GormReferenceStor) GetCourseByID(courseID string) (*tmmodel.Course, error) {
	var course tmmodel.Course
	if err := s.db.Where("id = ?", courseID).First(&course).Error; err != nil {
		return nil, err
	}

	return &course, nil
}

func (s *GormReferenceStor) GetSectionForCourse(courseID, crn string) (*tmmodel.Section, error) {
	var section tmmodel.Section
	err := s.db.Where("crn = ? AND course_id = ?", crn, courseID).First(&section).Error
	if err != nil {
		return nil, err
	}

	return &section, nil
}

// ListTerms returns terms newest first.
func (s *GormReferenceStor) ListTerms() ([]tmmodel.Term, error) {
	var terms []tmmodel.Term
	err := s.db.Order("start_date DESC, id DESC").Find(&terms).Error
	return terms, err
}

func (s *GormReferenceStor) ListSectionsForCourse(courseID string) ([]tmmodel.Section, error) {
	var sections []tmmodel.Section
	err := s.db.Where("course_id = ?", courseID).Order("crn").Find(&sections).Error
	return sections, err
}

func (s *GormReferenceStor) ListSkills() ([]tmmodel.Skill, error) {
	var skills []tmmodel.Skill
	err := s.db.Order("name").Find(&skills).Error
	return skills, err
}

// GetSkillsBySlugs looks up skills by slug. Slugs without a matching skill are
// simply absent from the result.
func (s *GormReferenceStor) GetSkillsBySlugs(slugs []string) ([]tmmodel.Skill, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	var skills []tmmodel.Skill
	err := s.db.Where("slug IN ?", slugs).Order("id").Find(&skills).Error
	return skills, err
}

// SkillSlugs normalizes free-form skill names ("Go", " go ", "GO") to distinct slugs,
// preserving first-seen order.
func SkillSlugs(names []string) []string {
	var (
		slugs []string
		seen  = make(map[string]bool)
	)

	for _, name := range names {
		skillSlug := slug.Make(strings.TrimSpace(name))
		if skillSlug == "" || seen[skillSlug] {
			continue
		}
		seen[skillSlug] = true
		slugs = append(slugs, skillSlug)
	}

	return slugs
}
