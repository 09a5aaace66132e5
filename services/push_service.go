package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"medbrain/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PushService registers mobile devices as SNS platform endpoints and
// publishes insight notifications to them.
type PushService struct {
	db              *gorm.DB
	sns             *awssns.Client
	fcmPlatformArn  string
	apnsPlatformArn string
	log             *zap.SugaredLogger
}

func NewPushService(db *gorm.DB, region, fcmArn, apnsArn string, log *zap.SugaredLogger) (*PushService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{
		db:              db,
		sns:             awssns.NewFromConfig(cfg),
		fcmPlatformArn:  fcmArn,
		apnsPlatformArn: apnsArn,
		log:             log,
	}, nil
}

func (p *PushService) tokenHash(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android":
		if p.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	case "ios":
		if p.apnsPlatformArn == "" {
			return "", errors.New("SNS_APNS_ARN not set")
		}
		return p.apnsPlatformArn, nil
	default:
		return "", errors.New("unknown platform")
	}
}

// RegisterDevice creates (or refreshes) the SNS endpoint for a device token.
// One row per (user, token hash).
func (p *PushService) RegisterDevice(ctx context.Context, userID uint, platform, token string) (*models.UserDevice, error) {
	arn, err := p.platformArn(platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(ctx, &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(arn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	device := models.UserDevice{
		UserID:      userID,
		Platform:    strings.ToLower(platform),
		TokenHash:   p.tokenHash(token),
		EndpointARN: aws.ToString(out.EndpointArn),
		Enabled:     true,
	}
	err = p.db.WithContext(ctx).
		Where("user_id = ? AND token_hash = ?", userID, device.TokenHash).
		Assign(device).
		FirstOrCreate(&device).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

// PushToUser publishes to every enabled endpoint the user has registered.
// Failures are logged, not returned; a dead endpoint never fails a request.
func (p *PushService) PushToUser(userID uint, title, body string, data map[string]string) {
	var devices []models.UserDevice
	if err := p.db.Where("user_id = ? AND enabled = ?", userID, true).Find(&devices).Error; err != nil {
		p.log.Warnf("load devices for user %d: %v", userID, err)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"default": body,
		"title":   title,
		"body":    body,
		"data":    data,
	})
	if err != nil {
		return
	}

	for _, d := range devices {
		_, err := p.sns.Publish(context.TODO(), &awssns.PublishInput{
			TargetArn: aws.String(d.EndpointARN),
			Message:   aws.String(string(payload)),
		})
		if err != nil {
			p.log.Warnf("push to device %d failed: %v", d.ID, err)
		}
	}
}
