package file

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/voxee/voxee/session"
)

// AttachmentOpts for attaching files to a chat turn.
type AttachmentOpts struct {
	Files []string
}

// GetAttachmentOpts on the given command.
func GetAttachmentOpts(cmd *cobra.Command) *AttachmentOpts {
	opts := &AttachmentOpts{}
	cmd.Flags().StringSliceVarP(&opts.Files, "file", "f", nil, "attach a file to the next message")
	return opts
}

// ParseAttachments loads the given files as attachments. Images are inlined
// as base64 data URIs; everything else is carried as text.
func ParseAttachments(opts *AttachmentOpts) ([]*session.Attachment, error) {
	attachments := make([]*session.Attachment, 0, len(opts.Files))
	for _, path := range opts.Files {
		attachment, err := LoadAttachment(path)
		if err != nil {
			return nil, errors.Wrapf(err, "loading attachment (%s)", path)
		}
		attachments = append(attachments, attachment)
	}
	return attachments, nil
}

// LoadAttachment reads a single file into an attachment.
func LoadAttachment(path string) (*session.Attachment, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "expanding path")
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "text/plain"
	}
	// Strip optional mime parameters such as `; charset=utf-8`.
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	data := string(bytes)
	if strings.HasPrefix(mediaType, "image/") {
		data = fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(bytes))
	}
	return &session.Attachment{
		MediaType: mediaType,
		Data:      data,
		Name:      filepath.Base(path),
	}, nil
}
