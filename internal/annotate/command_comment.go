package annotate

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prkit/prkit/internal/githubcli"
)

const (
	commentCommandUseConstant              = "comment"
	commentCommandShortDescriptionConstant = "Post a comment on a pull request"
	commentCommandLongDescriptionConstant  = "comment posts the provided body on a pull request through the GitHub CLI, optionally amending the most recent comment instead of creating a new one."
	pullRequestFlagNameConstant            = "pr"
	pullRequestFlagDescriptionConstant     = "Pull request number (defaults to the configured pull request)."
	bodyFlagNameConstant                   = "body"
	bodyFlagDescriptionConstant            = "Comment body to post."
	bodyFileFlagNameConstant               = "body-file"
	bodyFileFlagDescriptionConstant        = "Path to a file whose contents become the comment body (ignored when --body is supplied)."
	editLastFlagNameConstant               = "edit-last"
	editLastFlagDescriptionConstant        = "Amend the most recent comment instead of posting a new one."
	missingPullRequestMessageConstant      = "pull request number is required; supply --pr or configure pull_request_number"
	missingBodyMessageConstant             = "comment body is required; supply --body or --body-file"
	bodyFileReadErrorTemplateConstant      = "unable to read comment body file: %w"
	commentFailureMessageConstant          = "comment posting failed"
	commentPostedMessageConstant           = "comment posted"
	logFieldPullRequestNumberConstant      = "pull_request_number"
	logFieldAmendedLastConstant            = "amended_last"
)

// CommentCommandBuilder assembles the comment command.
type CommentCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitHubExecutor               githubcli.GitHubCommandExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the comment command.
func (builder *CommentCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commentCommandUseConstant,
		Short: commentCommandShortDescriptionConstant,
		Long:  commentCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().Int(pullRequestFlagNameConstant, 0, pullRequestFlagDescriptionConstant)
	command.Flags().String(bodyFlagNameConstant, "", bodyFlagDescriptionConstant)
	command.Flags().String(bodyFileFlagNameConstant, "", bodyFileFlagDescriptionConstant)
	command.Flags().Bool(editLastFlagNameConstant, false, editLastFlagDescriptionConstant)

	return command, nil
}

func (builder *CommentCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := resolveCommandConfiguration(builder.ConfigurationProvider)
	logger := resolveLogger(builder.LoggerProvider)

	pullRequestNumber, pullRequestError := resolvePullRequestNumber(command, configuration)
	if pullRequestError != nil {
		logger.Error(commentFailureMessageConstant, zap.Error(pullRequestError))
		return nil
	}

	commentBody, bodyError := resolveCommentBody(command)
	if bodyError != nil {
		return bodyError
	}

	amendLastComment, editLastFlagError := command.Flags().GetBool(editLastFlagNameConstant)
	if editLastFlagError != nil {
		return editLastFlagError
	}

	service, serviceError := builder.resolveService(logger, configuration)
	if serviceError != nil {
		return serviceError
	}

	result, postError := service.PostComment(command.Context(), PostCommentOptions{
		PullRequestNumber: pullRequestNumber,
		CommentBody:       commentBody,
		AmendLastComment:  amendLastComment,
	})
	if postError != nil {
		logger.Error(commentFailureMessageConstant,
			zap.Int(logFieldPullRequestNumberConstant, pullRequestNumber),
			zap.Error(postError),
		)
		return nil
	}

	logger.Info(commentPostedMessageConstant,
		zap.Int(logFieldPullRequestNumberConstant, result.PullRequestNumber),
		zap.Bool(logFieldAmendedLastConstant, result.AmendedLast),
	)

	return nil
}

func (builder *CommentCommandBuilder) resolveService(logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	executor, executorError := resolveGitHubExecutor(builder.GitHubExecutor, logger, humanReadableLoggingEnabled(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return nil, executorError
	}
	return resolveService(executor, configuration)
}

func resolveCommandConfiguration(configurationProvider func() CommandConfiguration) CommandConfiguration {
	if configurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return configurationProvider().Sanitize()
}

func humanReadableLoggingEnabled(humanReadableLoggingProvider func() bool) bool {
	if humanReadableLoggingProvider == nil {
		return false
	}
	return humanReadableLoggingProvider()
}

func resolvePullRequestNumber(command *cobra.Command, configuration CommandConfiguration) (int, error) {
	pullRequestNumber, flagError := command.Flags().GetInt(pullRequestFlagNameConstant)
	if flagError != nil {
		return 0, flagError
	}
	if pullRequestNumber <= 0 {
		pullRequestNumber = configuration.PullRequestNumber
	}
	if pullRequestNumber <= 0 {
		return 0, errors.New(missingPullRequestMessageConstant)
	}
	return pullRequestNumber, nil
}

func resolveCommentBody(command *cobra.Command) (string, error) {
	commentBody, bodyFlagError := command.Flags().GetString(bodyFlagNameConstant)
	if bodyFlagError != nil {
		return "", bodyFlagError
	}
	if len(commentBody) > 0 {
		return commentBody, nil
	}

	bodyFilePath, fileFlagError := command.Flags().GetString(bodyFileFlagNameConstant)
	if fileFlagError != nil {
		return "", fileFlagError
	}
	if len(bodyFilePath) > 0 {
		bodyContents, readError := os.ReadFile(bodyFilePath)
		if readError != nil {
			return "", fmt.Errorf(bodyFileReadErrorTemplateConstant, readError)
		}
		return string(bodyContents), nil
	}

	return "", errors.New(missingBodyMessageConstant)
}
