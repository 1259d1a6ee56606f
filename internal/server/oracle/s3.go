package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophreveal/internal/server/fhe"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// objectPutter is the part of *s3.Client used to publish requests.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures the bucket the oracle polls for requests.
type S3Options struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// Request is the envelope written to requests/<cid>.json.
type Request struct {
	CorrelationID string       `json:"correlation_id"`
	Callback      string       `json:"callback"`
	Handles       []fhe.Handle `json:"handles"`
	RequestedAt   time.Time    `json:"requested_at"`
}

// S3Requester publishes decryption requests as objects in an
// S3-compatible bucket.
type S3Requester struct {
	client objectPutter
	bucket string
	newID  func() string
	now    func() time.Time
}

// NewS3Requester builds an S3 client with static credentials and a custom
// base endpoint, the way MinIO expects it.
func NewS3Requester(ctx context.Context, o S3Options) (*S3Requester, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.User, o.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		so.BaseEndpoint = aws.String(o.BaseEndpoint)
		so.UsePathStyle = true
	})
	return newS3Requester(client, o.Bucket), nil
}

func newS3Requester(client objectPutter, bucket string) *S3Requester {
	return &S3Requester{
		client: client,
		bucket: bucket,
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
	}
}

// RequestKey is the object key a request is published under.
func RequestKey(cid string) string {
	return "requests/" + cid + ".json"
}

func (r *S3Requester) RequestDecryption(ctx context.Context, handles []fhe.Handle, callback string) (string, error) {
	cid := r.newID()

	body, err := json.Marshal(Request{
		CorrelationID: cid,
		Callback:      callback,
		Handles:       handles,
		RequestedAt:   r.now().UTC(),
	})
	if err != nil {
		return "", err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(RequestKey(cid)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("publish decryption request: %w", err)
	}
	return cid, nil
}
