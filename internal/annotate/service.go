package annotate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/prkit/prkit/internal/githubcli"
)

const (
	githubClientMissingMessageConstant       = "github client not configured"
	bodyStoreMissingMessageConstant          = "comment body store not configured"
	commentBodyRequiredMessageConstant       = "comment body must be provided"
	pullRequestNumberRequiredMessageConstant = "pull request number must be positive"
	commentAuthorRequiredMessageConstant     = "comment author must be provided"
	signMarkerRequiredMessageConstant        = "sign marker must be provided"
	repositoryRequiredMessageConstant        = "repository must be provided"
	repositoryFormatMessageTemplateConstant  = "repository %q must use the owner/name form"
	bodyFilePreparationTemplateConstant      = "failed to prepare comment body: %w"
	commentCreationTemplateConstant          = "failed to post comment: %w"
	commentInspectionTemplateConstant        = "failed to inspect existing comments: %w"
	labelEditTemplateConstant                = "failed to edit labels: %w"
	contributorStatusTemplateConstant        = "failed to resolve contributor status: %w"
	repositorySeparatorConstant              = "/"
	repositorySegmentCountConstant           = 2
)

// ErrGitHubClientNotConfigured indicates the GitHub client dependency was missing.
var ErrGitHubClientNotConfigured = errors.New(githubClientMissingMessageConstant)

// ErrBodyStoreNotConfigured indicates the comment body store dependency was missing.
var ErrBodyStoreNotConfigured = errors.New(bodyStoreMissingMessageConstant)

// ErrCommentBodyRequired indicates an empty comment body was supplied.
var ErrCommentBodyRequired = errors.New(commentBodyRequiredMessageConstant)

// ErrPullRequestNumberRequired indicates a missing or non-positive pull request number.
var ErrPullRequestNumberRequired = errors.New(pullRequestNumberRequiredMessageConstant)

// ErrCommentAuthorRequired indicates the comment author login was empty.
var ErrCommentAuthorRequired = errors.New(commentAuthorRequiredMessageConstant)

// ErrSignMarkerRequired indicates the sign marker was empty.
var ErrSignMarkerRequired = errors.New(signMarkerRequiredMessageConstant)

// ErrRepositoryRequired indicates the repository identifier was empty.
var ErrRepositoryRequired = errors.New(repositoryRequiredMessageConstant)

// GitHubOperations captures the GitHub CLI behaviors required by the annotation service.
type GitHubOperations interface {
	CreateComment(executionContext context.Context, options githubcli.CommentCreateOptions) error
	CommentMatchExists(executionContext context.Context, options githubcli.CommentQueryOptions) (bool, error)
	EditLabels(executionContext context.Context, options githubcli.LabelEditOptions) error
	ResolveContributorStatus(executionContext context.Context, options githubcli.ContributorQueryOptions) (githubcli.ContributorStatus, error)
}

// Dependencies enumerates external collaborators required by the annotation service.
type Dependencies struct {
	GitHubClient GitHubOperations
	BodyStore    CommentBodyStore
}

// PostCommentOptions configures a comment posting operation.
type PostCommentOptions struct {
	PullRequestNumber int
	CommentBody       string
	AmendLastComment  bool
}

// PostCommentResult reports the outcome of a comment posting operation.
type PostCommentResult struct {
	PullRequestNumber int
	AmendedLast       bool
}

// UpsertCommentOptions configures a marker-based comment synchronization.
type UpsertCommentOptions struct {
	PullRequestNumber int
	AuthorLogin       string
	CommentBody       string
	SignMarker        string
}

// UpsertCommentResult reports whether an existing signed comment was amended or a new one posted.
type UpsertCommentResult struct {
	PullRequestNumber int
	MatchedExisting   bool
}

// ApplyLabelsOptions configures a label mutation operation.
type ApplyLabelsOptions struct {
	PullRequestNumber int
	AddLabels         []string
	RemoveLabels      []string
}

// ApplyLabelsResult reports the labels forwarded to gh. Skipped is true when
// both label sets were empty after sanitization and no command ran.
type ApplyLabelsResult struct {
	PullRequestNumber int
	AppliedLabels     []string
	RemovedLabels     []string
	Skipped           bool
}

// CheckContributorOptions configures a contributor status lookup.
type CheckContributorOptions struct {
	Repository        string
	PullRequestNumber int
}

// CheckContributorResult reports the pull request author and first-time classification.
type CheckContributorResult struct {
	Login                string
	FirstTimeContributor bool
}

// Service coordinates pull request annotation operations through the GitHub CLI.
type Service struct {
	githubClient GitHubOperations
	bodyStore    CommentBodyStore
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.GitHubClient == nil {
		return nil, ErrGitHubClientNotConfigured
	}
	if dependencies.BodyStore == nil {
		return nil, ErrBodyStoreNotConfigured
	}
	return &Service{githubClient: dependencies.GitHubClient, bodyStore: dependencies.BodyStore}, nil
}

// PostComment writes the body to a transient file and posts it on the pull
// request, optionally amending the author's most recent comment.
func (service *Service) PostComment(executionContext context.Context, options PostCommentOptions) (PostCommentResult, error) {
	if options.PullRequestNumber <= 0 {
		return PostCommentResult{}, ErrPullRequestNumberRequired
	}
	if len(strings.TrimSpace(options.CommentBody)) == 0 {
		return PostCommentResult{}, ErrCommentBodyRequired
	}

	bodyFilePath, storeError := service.bodyStore.Create(options.CommentBody)
	if storeError != nil {
		return PostCommentResult{}, fmt.Errorf(bodyFilePreparationTemplateConstant, storeError)
	}
	defer func() {
		_ = service.bodyStore.Remove(bodyFilePath)
	}()

	creationError := service.githubClient.CreateComment(executionContext, githubcli.CommentCreateOptions{
		PullRequestNumber: options.PullRequestNumber,
		BodyFilePath:      bodyFilePath,
		EditLast:          options.AmendLastComment,
	})
	if creationError != nil {
		return PostCommentResult{}, fmt.Errorf(commentCreationTemplateConstant, creationError)
	}

	return PostCommentResult{PullRequestNumber: options.PullRequestNumber, AmendedLast: options.AmendLastComment}, nil
}

// UpsertComment posts the body as a new comment unless a prior comment by the
// author already carries the sign marker, in which case the last comment is
// amended instead. A failed comment inspection aborts the synchronization
// without posting anything.
func (service *Service) UpsertComment(executionContext context.Context, options UpsertCommentOptions) (UpsertCommentResult, error) {
	if options.PullRequestNumber <= 0 {
		return UpsertCommentResult{}, ErrPullRequestNumberRequired
	}
	if len(strings.TrimSpace(options.AuthorLogin)) == 0 {
		return UpsertCommentResult{}, ErrCommentAuthorRequired
	}
	if len(strings.TrimSpace(options.SignMarker)) == 0 {
		return UpsertCommentResult{}, ErrSignMarkerRequired
	}
	if len(strings.TrimSpace(options.CommentBody)) == 0 {
		return UpsertCommentResult{}, ErrCommentBodyRequired
	}

	matchedExisting, matchError := service.githubClient.CommentMatchExists(executionContext, githubcli.CommentQueryOptions{
		PullRequestNumber: options.PullRequestNumber,
		AuthorLogin:       options.AuthorLogin,
		SignMarker:        options.SignMarker,
	})
	if matchError != nil {
		return UpsertCommentResult{}, fmt.Errorf(commentInspectionTemplateConstant, matchError)
	}

	_, postError := service.PostComment(executionContext, PostCommentOptions{
		PullRequestNumber: options.PullRequestNumber,
		CommentBody:       options.CommentBody,
		AmendLastComment:  matchedExisting,
	})
	if postError != nil {
		return UpsertCommentResult{}, postError
	}

	return UpsertCommentResult{PullRequestNumber: options.PullRequestNumber, MatchedExisting: matchedExisting}, nil
}

// ApplyLabels mutates the pull request label set. Additions take precedence:
// when any label remains in the addition set after sanitization, the removal
// set is ignored entirely. Empty inputs produce a skipped result without
// invoking gh.
func (service *Service) ApplyLabels(executionContext context.Context, options ApplyLabelsOptions) (ApplyLabelsResult, error) {
	if options.PullRequestNumber <= 0 {
		return ApplyLabelsResult{}, ErrPullRequestNumberRequired
	}

	addLabels := sanitizeLabels(options.AddLabels)
	removeLabels := sanitizeLabels(options.RemoveLabels)
	if len(addLabels) == 0 && len(removeLabels) == 0 {
		return ApplyLabelsResult{PullRequestNumber: options.PullRequestNumber, Skipped: true}, nil
	}

	labelOptions := githubcli.LabelEditOptions{PullRequestNumber: options.PullRequestNumber}
	result := ApplyLabelsResult{PullRequestNumber: options.PullRequestNumber}
	if len(addLabels) > 0 {
		labelOptions.AddLabels = addLabels
		result.AppliedLabels = addLabels
	} else {
		labelOptions.RemoveLabels = removeLabels
		result.RemovedLabels = removeLabels
	}

	editError := service.githubClient.EditLabels(executionContext, labelOptions)
	if editError != nil {
		return ApplyLabelsResult{}, fmt.Errorf(labelEditTemplateConstant, editError)
	}

	return result, nil
}

// CheckContributor resolves the pull request author login and reports whether
// GitHub classifies them as a first-time contributor to the repository.
func (service *Service) CheckContributor(executionContext context.Context, options CheckContributorOptions) (CheckContributorResult, error) {
	if options.PullRequestNumber <= 0 {
		return CheckContributorResult{}, ErrPullRequestNumberRequired
	}

	repositoryOwner, repositoryName, splitError := splitRepositoryIdentifier(options.Repository)
	if splitError != nil {
		return CheckContributorResult{}, splitError
	}

	contributorStatus, resolutionError := service.githubClient.ResolveContributorStatus(executionContext, githubcli.ContributorQueryOptions{
		RepositoryOwner:   repositoryOwner,
		RepositoryName:    repositoryName,
		PullRequestNumber: options.PullRequestNumber,
	})
	if resolutionError != nil {
		return CheckContributorResult{}, fmt.Errorf(contributorStatusTemplateConstant, resolutionError)
	}

	return CheckContributorResult{
		Login:                contributorStatus.Login,
		FirstTimeContributor: contributorStatus.FirstTimeContributor,
	}, nil
}

func splitRepositoryIdentifier(repositoryIdentifier string) (string, string, error) {
	trimmedIdentifier := strings.TrimSpace(repositoryIdentifier)
	if len(trimmedIdentifier) == 0 {
		return "", "", ErrRepositoryRequired
	}

	repositorySegments := strings.Split(trimmedIdentifier, repositorySeparatorConstant)
	if len(repositorySegments) != repositorySegmentCountConstant {
		return "", "", fmt.Errorf(repositoryFormatMessageTemplateConstant, trimmedIdentifier)
	}

	repositoryOwner := strings.TrimSpace(repositorySegments[0])
	repositoryName := strings.TrimSpace(repositorySegments[1])
	if len(repositoryOwner) == 0 || len(repositoryName) == 0 {
		return "", "", fmt.Errorf(repositoryFormatMessageTemplateConstant, trimmedIdentifier)
	}

	return repositoryOwner, repositoryName, nil
}

func sanitizeLabels(rawLabels []string) []string {
	sanitized := make([]string, 0, len(rawLabels))
	for _, labelCandidate := range rawLabels {
		trimmedLabel := strings.TrimSpace(labelCandidate)
		if len(trimmedLabel) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmedLabel)
	}
	return sanitized
}
