package attachment

import (
	"bytes"
	"io"
	"io/ioutil"
	"testing"

	"odtflow/bizerror"
	"odtflow/client/s3"
	"odtflow/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	. "github.com/onsi/gomega"
)

func TestDetailAttachment(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should read the object under the project folder", func(t *testing.T) {
		s3.GetObjectFunc = func(key string, s *session.Session, o ...oss.Option) (io.ReadCloser, error) {
			Expect(key).To(Equal("projects/123/brief.pdf"))
			return ioutil.NopCloser(bytes.NewBufferString("brief content")), nil
		}

		data, err := DetailAttachment(123, "brief.pdf", &session.Session{})
		Expect(err).To(BeNil())
		Expect(string(data)).To(Equal("brief content"))
	})

	t.Run("should map a missing key to not found", func(t *testing.T) {
		s3.GetObjectFunc = func(key string, s *session.Session, o ...oss.Option) (io.ReadCloser, error) {
			return nil, oss.ServiceError{Code: "NoSuchKey"}
		}

		_, err := DetailAttachment(123, "missing.pdf", &session.Session{})
		Expect(err).To(Equal(bizerror.ErrNotFound))
	})

	t.Run("should reject names that escape the project folder", func(t *testing.T) {
		_, err := DetailAttachment(123, "../secret", &session.Session{})
		Expect(err).To(Equal(bizerror.ErrNotFound))
	})
}

func TestCreateAttachment(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should store the object under the project folder", func(t *testing.T) {
		var storedKey string
		var storedBody string
		s3.PutObjectFunc = func(key string, r io.Reader, s *session.Session, o ...oss.Option) error {
			storedKey = key
			b, _ := ioutil.ReadAll(r)
			storedBody = string(b)
			return nil
		}

		err := CreateAttachment(123, "draft.mp4", bytes.NewBufferString("binary"), &session.Session{})
		Expect(err).To(BeNil())
		Expect(storedKey).To(Equal("projects/123/draft.mp4"))
		Expect(storedBody).To(Equal("binary"))
	})

	t.Run("should reject invalid names", func(t *testing.T) {
		err := CreateAttachment(123, "a/b", bytes.NewBufferString("x"), &session.Session{})
		Expect(err).ToNot(BeNil())
		_, ok := err.(*bizerror.ErrBadParam)
		Expect(ok).To(BeTrue())
	})
}

func TestListAttachments(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should list objects with the prefix stripped", func(t *testing.T) {
		s3.ListObjectsFunc = func(prefix string, s *session.Session) ([]oss.ObjectProperties, error) {
			Expect(prefix).To(Equal("projects/123/"))
			return []oss.ObjectProperties{
				{Key: "projects/123/brief.pdf", Size: 1024},
				{Key: "projects/123/draft.mp4", Size: 2048},
			}, nil
		}

		infos, err := ListAttachments(123, &session.Session{})
		Expect(err).To(BeNil())
		Expect(infos).To(Equal([]AttachmentInfo{
			{Name: "brief.pdf", Size: 1024},
			{Name: "draft.mp4", Size: 2048},
		}))
	})
}
