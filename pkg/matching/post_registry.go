package matching

import (
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
	"github.com/teamup-uiuc/teamup/pkg/tmerr"
)

// PostRegistry owns posts and their skill tags. Every post is created together with
// the team it advertises.
type PostRegistry struct {
	*core
	teams *TeamRegistry
}

type NewPost struct {
	UserID     int
	CourseID   string
	SectionID  *string
	TeamName   string
	TargetSize int
	Title      string
	Content    string
	Skills     []string
}

// PostPatch is a partial update of a post. Nil fields are left unchanged.
type PostPatch struct {
	Title   *string
	Content *string
}

// PostDetail is a post together with the state of its team.
type PostDetail struct {
	tmmodel.Post
	TargetTeamSize int                `json:"target_size"`
	CurrentSize    int                `json:"current_size"`
	TeamStatus     tmmodel.TeamStatus `json:"team_status"`
	TeamName       string             `json:"team_name"`
	CourseID       string             `json:"course_id"`
	SectionID      *string            `json:"section_id"`
	RequestCount   int                `json:"request_count"`
	SkillNames     []string           `json:"skill_names"`
}

// CreatePost creates the team, the owner membership, the post and its skill tags in
// one transaction.
func (r *PostRegistry) CreatePost(np NewPost) (*tmmodel.Post, error) {
	title, err := requireText("title", np.Title, MaxTitleLen)
	if err != nil {
		return nil, err
	}

	content, err := requireText("content", np.Content, MaxContentLen)
	if err != nil {
		return nil, err
	}

	var post *tmmodel.Post
	err = r.inTx(func(stors *stor.Stors) error {
		if err := checkPlacement(stors, np.UserID, np.CourseID, np.SectionID); err != nil {
			return err
		}

		skills, err := resolveSkills(stors, np.Skills)
		if err != nil {
			return err
		}

		team, err := r.teams.createTeam(stors, NewTeam{
			CourseID:   np.CourseID,
			SectionID:  np.SectionID,
			TeamName:   np.TeamName,
			TargetSize: np.TargetSize,
			OwnerID:    np.UserID,
		})
		if err != nil {
			return err
		}

		post, err = stors.PostStor.CreatePost(&tmmodel.Post{
			UserID:  np.UserID,
			TeamID:  team.ID,
			Title:   title,
			Content: content,
			Skills:  skills,
		})
		switch {
		case errors.Is(err, stor.ErrDuplicateKey):
			return tmerr.Conflict("team %d already has a post", team.ID)
		case err != nil:
			return tmerr.Internal(err, "creating post")
		}

		post.Team = team
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger().WithFields(log.Fields{"post_id": post.ID, "team_id": post.TeamID, "user_id": np.UserID}).Info("post created")
	return post, nil
}

// resolveSkills maps skill names to existing skills by slug. Unknown skills are a
// validation error since the skill list is reference data.
func resolveSkills(stors *stor.Stors, names []string) ([]tmmodel.Skill, error) {
	slugs := stor.SkillSlugs(names)
	if len(slugs) == 0 {
		return nil, nil
	}

	skills, err := stors.ReferenceStor.GetSkillsBySlugs(slugs)
	if err != nil {
		return nil, tmerr.Internal(err, "loading skills")
	}

	if len(skills) != len(slugs) {
		known := make(map[string]bool, len(skills))
		for _, s := range skills {
			known[s.Slug] = true
		}
		for _, s := range slugs {
			if !known[s] {
				return nil, tmerr.Validation("unknown skill %q", s)
			}
		}
	}

	return skills, nil
}

// UpdatePost applies patch to the post. Only the author may update it.
func (r *PostRegistry) UpdatePost(postID, actingUserID int, patch PostPatch) (*tmmodel.Post, error) {
	updates := make(map[string]interface{})

	if patch.Title != nil {
		title, err := requireText("title", *patch.Title, MaxTitleLen)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}

	if patch.Content != nil {
		content, err := requireText("content", *patch.Content, MaxContentLen)
		if err != nil {
			return nil, err
		}
		updates["content"] = content
	}

	if len(updates) == 0 {
		return nil, tmerr.Validation("no fields to update")
	}

	updates["updated_at"] = time.Now()

	var post *tmmodel.Post
	err := r.inTx(func(stors *stor.Stors) error {
		existing, err := stors.PostStor.GetPostByID(postID)
		if err != nil {
			return lookupErr(err, "post", postID)
		}

		if existing.UserID != actingUserID {
			return tmerr.Unauthorized("only the author can update post %d", postID)
		}

		if err := stors.PostStor.UpdatePost(postID, updates); err != nil {
			return tmerr.Internal(err, "updating post %d", postID)
		}

		post, err = stors.PostStor.GetPostByID(postID)
		return tmerr.Internal(err, "reloading post %d", postID)
	})
	if err != nil {
		return nil, err
	}

	logger().WithFields(log.Fields{"post_id": postID, "user_id": actingUserID}).Info("post updated")
	return post, nil
}

func (r *PostRegistry) GetPost(postID int) (*PostDetail, error) {
	var detail *PostDetail
	err := r.inTx(func(stors *stor.Stors) error {
		post, err := stors.PostStor.GetPostWithDetails(postID)
		if err != nil {
			return lookupErr(err, "post", postID)
		}

		size, err := stors.TeamStor.CountMembers(post.TeamID)
		if err != nil {
			return tmerr.Internal(err, "counting members of team %d", post.TeamID)
		}

		requests, err := stors.MatchRequestStor.CountMatchRequestsForPost(postID)
		if err != nil {
			return tmerr.Internal(err, "counting requests for post %d", postID)
		}

		detail = &PostDetail{
			Post:         *post,
			CurrentSize:  size,
			RequestCount: requests,
			SkillNames:   make([]string, 0, len(post.Skills)),
		}
		for _, s := range post.Skills {
			detail.SkillNames = append(detail.SkillNames, s.Name)
		}
		if post.Team != nil {
			detail.TargetTeamSize = post.Team.TargetSize
			detail.TeamStatus = post.Team.Status
			detail.TeamName = post.Team.TeamName
			detail.CourseID = post.Team.CourseID
			detail.SectionID = post.Team.SectionID
		}

		return nil
	})

	return detail, err
}

// PostsForUser lists posts the user wrote or commented on, newest first.
func (r *PostRegistry) PostsForUser(userID, limit int) ([]tmmodel.Post, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	posts, err := r.reader().PostStor.ListPostsForUser(userID, limit)
	if err != nil {
		return nil, tmerr.Internal(err, "listing posts for user %d", userID)
	}

	return posts, nil
}
