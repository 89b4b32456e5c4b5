package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	sc "github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// seams for tests
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	s3PutObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	s3GetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
	s3DeleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// AvatarService stores avatar bytes in an S3-compatible object store and
// records the storage key on the user row. Bytes are stored and served
// verbatim; image processing is out of scope.
type AvatarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

// NewAvatarService constructs an AvatarService over the given repositories
// and object-storage settings.
func NewAvatarService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *AvatarService {
	return &AvatarService{db: db, repomanager: m, config: config}
}

func avatarStorageKey(userID string) string {
	return fmt.Sprintf("users/%s/avatar/%v", userID, uuid.New())
}

func (s *AvatarService) getClient() (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

// Upload stores data as the user's avatar, replacing the recorded key.
func (s *AvatarService) Upload(ctx context.Context, user *models.User, data []byte) error {
	client, err := s.getClient()
	if err != nil {
		return common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := avatarStorageKey(user.ID)

	_, err = s3PutObject(client, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return common.ErrorInternal
	}

	user.AvatarKey = key
	if _, err := s.repomanager.Users(s.db).Update(ctx, user); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// Download fetches the avatar bytes of any user by id; absent avatars are
// reported as not found.
func (s *AvatarService) Download(ctx context.Context, userID string) ([]byte, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	if user.AvatarKey == "" {
		return nil, common.ErrorNotFound
	}

	client, err := s.getClient()
	if err != nil {
		return nil, common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	out, err := s3GetObject(client, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &user.AvatarKey,
	})
	if err != nil {
		return nil, common.ErrorInternal
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return data, nil
}

// Remove deletes the stored avatar object and clears the key on the user row.
// Removing an absent avatar is a no-op.
func (s *AvatarService) Remove(ctx context.Context, user *models.User) error {
	if user.AvatarKey == "" {
		return nil
	}

	client, err := s.getClient()
	if err != nil {
		return common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	if _, err := s3DeleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &user.AvatarKey,
	}); err != nil {
		return common.ErrorInternal
	}

	user.AvatarKey = ""
	if _, err := s.repomanager.Users(s.db).Update(ctx, user); err != nil {
		return common.ErrorInternal
	}

	return nil
}
