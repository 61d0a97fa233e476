package s3

import (
	"io"
	"os"

	"odtflow/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

var (
	AttachmentBucket *oss.Bucket
	GetObjectFunc    func(string, *session.Session, ...oss.Option) (io.ReadCloser, error)
	PutObjectFunc    func(string, io.Reader, *session.Session, ...oss.Option) error
	ListObjectsFunc  func(string, *session.Session) ([]oss.ObjectProperties, error)
)

func Bootstrap() {
	var err error
	AttachmentBucket, err = BuildBucketFromEnv()
	if err != nil {
		panic(err)
	}

	GetObjectFunc = GetObject
	PutObjectFunc = PutObject
	ListObjectsFunc = ListObjects
}

func BuildBucketFromEnv() (*oss.Bucket, error) {
	endpoint := os.ExpandEnv(os.Getenv("OSS_ENDPOINT"))
	if endpoint == "" {
		endpoint = "dummy"
	}
	accessKey := os.Getenv("OSS_ACCESS_KEY")
	secretKey := os.Getenv("OSS_SECRET_KEY")
	bucket := os.Getenv("OSS_BUCKET")
	if bucket == "" {
		bucket = "odtflow"
	}
	return BuildBucket(endpoint, accessKey, secretKey, bucket)
}

func BuildBucket(endpoint, accesskey, secretKey, bucketName string) (*oss.Bucket, error) {
	// endpoint http://oss-cn-hangzhou.aliyuncs.com
	cli, err := oss.New(endpoint, accesskey, secretKey, oss.HTTPClient(nil))
	if err != nil {
		return nil, err
	}

	bucket, err := cli.Bucket(bucketName)
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

func GetObject(key string, s *session.Session, opts ...oss.Option) (io.ReadCloser, error) {
	childSpan := startChildSpan("get-object", key, s)
	r, err := AttachmentBucket.GetObject(key, opts...)
	finishChildSpan(childSpan, err)
	return r, err
}

func PutObject(key string, r io.Reader, s *session.Session, opts ...oss.Option) error {
	childSpan := startChildSpan("put-object", key, s)
	err := AttachmentBucket.PutObject(key, r, opts...)
	finishChildSpan(childSpan, err)
	return err
}

func ListObjects(prefix string, s *session.Session) ([]oss.ObjectProperties, error) {
	childSpan := startChildSpan("list-objects", prefix, s)

	objects := []oss.ObjectProperties{}
	marker := oss.Marker("")
	pre := oss.Prefix(prefix)
	for {
		// default page size is 100
		r, err := AttachmentBucket.ListObjects(marker, pre)
		if err != nil {
			finishChildSpan(childSpan, err)
			return nil, err
		}
		objects = append(objects, r.Objects...)
		if !r.IsTruncated {
			break
		}
		pre = oss.Prefix(r.Prefix)
		marker = oss.Marker(r.NextMarker)
	}
	finishChildSpan(childSpan, nil)
	return objects, nil
}

func startChildSpan(op, key string, s *session.Session) *opentracing.Span {
	if s.Context == nil {
		return nil
	}
	parentSpan := opentracing.SpanFromContext(s.Context)
	if parentSpan == nil {
		return nil
	}
	sp := parentSpan.Tracer().StartSpan(op, opentracing.ChildOf(parentSpan.Context()))
	sp.SetTag("object-key", key)
	return &sp
}

func finishChildSpan(span *opentracing.Span, err error) {
	if span == nil {
		return
	}
	ext.Error.Set(*span, err != nil)
	(*span).Finish()
}
