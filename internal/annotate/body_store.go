package annotate

import (
	"fmt"
	"os"
)

const (
	bodyFilePatternConstant               = "prkit-comment-*.md"
	bodyFileCreationErrorTemplateConstant = "unable to create comment body file: %w"
	bodyFileWriteErrorTemplateConstant    = "unable to write comment body file: %w"
	bodyFileRemovalErrorTemplateConstant  = "unable to remove comment body file: %w"
)

// CommentBodyStore persists comment bodies to transient files consumable by gh.
type CommentBodyStore interface {
	Create(commentBody string) (string, error)
	Remove(bodyFilePath string) error
}

// OSCommentBodyStore stores comment bodies in the operating system temporary directory.
type OSCommentBodyStore struct{}

// NewOSCommentBodyStore constructs a store backed by os.CreateTemp.
func NewOSCommentBodyStore() *OSCommentBodyStore {
	return &OSCommentBodyStore{}
}

// Create writes the comment body to a fresh temporary file and returns its path.
func (store *OSCommentBodyStore) Create(commentBody string) (string, error) {
	bodyFile, creationError := os.CreateTemp("", bodyFilePatternConstant)
	if creationError != nil {
		return "", fmt.Errorf(bodyFileCreationErrorTemplateConstant, creationError)
	}

	_, writeError := bodyFile.WriteString(commentBody)
	closeError := bodyFile.Close()
	if writeError != nil {
		_ = os.Remove(bodyFile.Name())
		return "", fmt.Errorf(bodyFileWriteErrorTemplateConstant, writeError)
	}
	if closeError != nil {
		_ = os.Remove(bodyFile.Name())
		return "", fmt.Errorf(bodyFileWriteErrorTemplateConstant, closeError)
	}

	return bodyFile.Name(), nil
}

// Remove deletes a previously created comment body file.
func (store *OSCommentBodyStore) Remove(bodyFilePath string) error {
	removalError := os.Remove(bodyFilePath)
	if removalError != nil {
		return fmt.Errorf(bodyFileRemovalErrorTemplateConstant, removalError)
	}
	return nil
}
