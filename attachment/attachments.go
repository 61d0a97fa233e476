package attachment

import (
	"errors"
	"io"
	"io/ioutil"
	"strings"

	"odtflow/bizerror"
	"odtflow/client/s3"
	"odtflow/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
)

type AttachmentInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// objectKey places every attachment under its project folder.
func objectKey(projectID types.ID, name string) string {
	return "projects/" + projectID.String() + "/" + name
}

func validName(name string) bool {
	if name == "" || len(name) > 128 {
		return false
	}
	return !strings.ContainsAny(name, "/\\")
}

func DetailAttachment(projectID types.ID, name string, s *session.Session) ([]byte, error) {
	if !validName(name) {
		return nil, bizerror.ErrNotFound
	}
	r, err := s3.GetObjectFunc(objectKey(projectID, name), s)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	defer r.Close()
	return ioutil.ReadAll(r)
}

func CreateAttachment(projectID types.ID, name string, r io.Reader, s *session.Session) error {
	if !validName(name) {
		return &bizerror.ErrBadParam{Cause: errors.New("invalid attachment name '" + name + "'")}
	}
	return s3.PutObjectFunc(objectKey(projectID, name), r, s)
}

func ListAttachments(projectID types.ID, s *session.Session) ([]AttachmentInfo, error) {
	prefix := "projects/" + projectID.String() + "/"
	objects, err := s3.ListObjectsFunc(prefix, s)
	if err != nil {
		return nil, err
	}
	infos := make([]AttachmentInfo, 0, len(objects))
	for _, o := range objects {
		infos = append(infos, AttachmentInfo{Name: strings.TrimPrefix(o.Key, prefix), Size: o.Size})
	}
	return infos, nil
}
