package annotate

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prkit/prkit/internal/githubcli"
)

const (
	syncCommandUseConstant              = "sync-comment"
	syncCommandShortDescriptionConstant = "Post or amend a signed comment on a pull request"
	syncCommandLongDescriptionConstant  = "sync-comment keeps a single signed comment current on a pull request: when an existing comment by the author already carries the sign marker the most recent comment is amended, otherwise a new comment is posted."
	authorFlagNameConstant              = "author"
	authorFlagDescriptionConstant       = "Login whose comments are inspected for the sign marker (defaults to the configured comment author)."
	markerFlagNameConstant              = "marker"
	markerFlagDescriptionConstant       = "Sign marker identifying the managed comment (defaults to the configured sign marker)."
	missingAuthorMessageConstant        = "comment author is required; supply --author or configure comment_author"
	missingMarkerMessageConstant        = "sign marker is required; supply --marker or configure sign_marker"
	syncFailureMessageConstant          = "comment synchronization failed"
	syncCompletedMessageConstant        = "comment synchronized"
	logFieldMatchedExistingConstant     = "matched_existing"
	logFieldCommentAuthorConstant       = "comment_author"
)

// SyncCommandBuilder assembles the sync-comment command.
type SyncCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitHubExecutor               githubcli.GitHubCommandExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the sync-comment command.
func (builder *SyncCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   syncCommandUseConstant,
		Short: syncCommandShortDescriptionConstant,
		Long:  syncCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().Int(pullRequestFlagNameConstant, 0, pullRequestFlagDescriptionConstant)
	command.Flags().String(bodyFlagNameConstant, "", bodyFlagDescriptionConstant)
	command.Flags().String(bodyFileFlagNameConstant, "", bodyFileFlagDescriptionConstant)
	command.Flags().String(authorFlagNameConstant, "", authorFlagDescriptionConstant)
	command.Flags().String(markerFlagNameConstant, "", markerFlagDescriptionConstant)

	return command, nil
}

func (builder *SyncCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := resolveCommandConfiguration(builder.ConfigurationProvider)
	logger := resolveLogger(builder.LoggerProvider)

	pullRequestNumber, pullRequestError := resolvePullRequestNumber(command, configuration)
	if pullRequestError != nil {
		logger.Error(syncFailureMessageConstant, zap.Error(pullRequestError))
		return nil
	}

	commentBody, bodyError := resolveCommentBody(command)
	if bodyError != nil {
		return bodyError
	}

	authorLogin, authorFlagError := command.Flags().GetString(authorFlagNameConstant)
	if authorFlagError != nil {
		return authorFlagError
	}
	if len(authorLogin) == 0 {
		authorLogin = configuration.CommentAuthor
	}
	if len(authorLogin) == 0 {
		return errors.New(missingAuthorMessageConstant)
	}

	signMarker, markerFlagError := command.Flags().GetString(markerFlagNameConstant)
	if markerFlagError != nil {
		return markerFlagError
	}
	if len(signMarker) == 0 {
		signMarker = configuration.SignMarker
	}
	if len(signMarker) == 0 {
		return errors.New(missingMarkerMessageConstant)
	}

	service, serviceError := builder.resolveService(logger, configuration)
	if serviceError != nil {
		return serviceError
	}

	result, upsertError := service.UpsertComment(command.Context(), UpsertCommentOptions{
		PullRequestNumber: pullRequestNumber,
		AuthorLogin:       authorLogin,
		CommentBody:       commentBody,
		SignMarker:        signMarker,
	})
	if upsertError != nil {
		logger.Error(syncFailureMessageConstant,
			zap.Int(logFieldPullRequestNumberConstant, pullRequestNumber),
			zap.String(logFieldCommentAuthorConstant, authorLogin),
			zap.Error(upsertError),
		)
		return nil
	}

	logger.Info(syncCompletedMessageConstant,
		zap.Int(logFieldPullRequestNumberConstant, result.PullRequestNumber),
		zap.Bool(logFieldMatchedExistingConstant, result.MatchedExisting),
	)

	return nil
}

func (builder *SyncCommandBuilder) resolveService(logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	executor, executorError := resolveGitHubExecutor(builder.GitHubExecutor, logger, humanReadableLoggingEnabled(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return nil, executorError
	}
	return resolveService(executor, configuration)
}
