package services

import (
	"context"
	"errors"
	"math"

	"medbrain/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrPostNotFound = errors.New("post not found")

type CommunityService struct {
	db *gorm.DB
}

func NewCommunityService(db *gorm.DB) *CommunityService { return &CommunityService{db: db} }

func (s *CommunityService) CreatePost(
	ctx context.Context,
	user *models.User,
	postType, content string,
	snapshot datatypes.JSON,
	anonymous bool,
) (*models.Post, error) {
	post := models.Post{
		UserID:         user.ID,
		Alias:          user.Username,
		Type:           postType,
		Content:        content,
		MetricSnapshot: snapshot,
		Anonymous:      anonymous,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

type FeedPage struct {
	Posts []models.Post `json:"posts"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
	Pages int           `json:"pages"`
}

// Feed pages newest-first over the creation-time index.
func (s *CommunityService) Feed(ctx context.Context, page, limit int, postType string) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.db.WithContext(ctx).Model(&models.Post{})
	if postType != "" {
		query = query.Where("type = ?", postType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var posts []models.Post
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Reactions").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &FeedPage{
		Posts: posts,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *CommunityService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Comments").
		Preload("Reactions").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *CommunityService) AddComment(ctx context.Context, postID uint, user *models.User, content string) (*models.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comment := models.Comment{
		PostID:  postID,
		UserID:  user.ID,
		Alias:   user.Username,
		Content: content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// SetReaction upserts the single reaction a user holds on a post; a second
// reaction with a different type overwrites the first. Returns the post's
// reactions after the write.
func (s *CommunityService) SetReaction(ctx context.Context, postID, userID uint, reactionType string) ([]models.Reaction, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var reaction models.Reaction
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		reaction = models.Reaction{PostID: postID, UserID: userID, Type: reactionType}
		if err := s.db.WithContext(ctx).Create(&reaction).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		reaction.Type = reactionType
		if err := s.db.WithContext(ctx).Save(&reaction).Error; err != nil {
			return nil, err
		}
	}

	var reactions []models.Reaction
	if err := s.db.WithContext(ctx).Where("post_id = ?", postID).Find(&reactions).Error; err != nil {
		return nil, err
	}
	return reactions, nil
}

func (s *CommunityService) RemoveReaction(ctx context.Context, postID, userID uint) error {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Reaction{}).Error
}
