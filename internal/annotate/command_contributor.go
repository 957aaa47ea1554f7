package annotate

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prkit/prkit/internal/githubcli"
)

const (
	contributorCommandUseConstant              = "contributor"
	contributorCommandShortDescriptionConstant = "Report the pull request author and first-time contributor status"
	contributorCommandLongDescriptionConstant  = "contributor resolves the pull request author login through the GitHub GraphQL API and reports whether GitHub classifies them as a first-time contributor to the repository."
	repositoryFlagNameConstant                 = "repo"
	repositoryFlagDescriptionConstant          = "Repository in owner/name form (defaults to the configured repository)."
	missingRepositoryMessageConstant           = "repository is required; supply --repo or configure repository"
	contributorFailureMessageConstant          = "contributor status check failed"
	contributorResolvedMessageConstant         = "contributor status resolved"
	contributorOutputTemplateConstant          = "%s first-time=%t\n"
	logFieldContributorLoginConstant           = "contributor_login"
	logFieldFirstTimeContributorConstant       = "first_time_contributor"
	logFieldRepositoryConstant                 = "repository"
)

// ContributorCommandBuilder assembles the contributor command.
type ContributorCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitHubExecutor               githubcli.GitHubCommandExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the contributor command.
func (builder *ContributorCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   contributorCommandUseConstant,
		Short: contributorCommandShortDescriptionConstant,
		Long:  contributorCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().Int(pullRequestFlagNameConstant, 0, pullRequestFlagDescriptionConstant)
	command.Flags().String(repositoryFlagNameConstant, "", repositoryFlagDescriptionConstant)

	return command, nil
}

func (builder *ContributorCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := resolveCommandConfiguration(builder.ConfigurationProvider)
	logger := resolveLogger(builder.LoggerProvider)

	pullRequestNumber, pullRequestError := resolvePullRequestNumber(command, configuration)
	if pullRequestError != nil {
		logger.Error(contributorFailureMessageConstant, zap.Error(pullRequestError))
		return nil
	}

	repositoryIdentifier, repositoryFlagError := command.Flags().GetString(repositoryFlagNameConstant)
	if repositoryFlagError != nil {
		return repositoryFlagError
	}
	if len(repositoryIdentifier) == 0 {
		repositoryIdentifier = configuration.Repository
	}
	if len(repositoryIdentifier) == 0 {
		return errors.New(missingRepositoryMessageConstant)
	}

	service, serviceError := builder.resolveService(logger, configuration)
	if serviceError != nil {
		return serviceError
	}

	result, checkError := service.CheckContributor(command.Context(), CheckContributorOptions{
		Repository:        repositoryIdentifier,
		PullRequestNumber: pullRequestNumber,
	})
	if checkError != nil {
		logger.Error(contributorFailureMessageConstant,
			zap.Int(logFieldPullRequestNumberConstant, pullRequestNumber),
			zap.String(logFieldRepositoryConstant, repositoryIdentifier),
			zap.Error(checkError),
		)
		return nil
	}

	logger.Info(contributorResolvedMessageConstant,
		zap.Int(logFieldPullRequestNumberConstant, pullRequestNumber),
		zap.String(logFieldContributorLoginConstant, result.Login),
		zap.Bool(logFieldFirstTimeContributorConstant, result.FirstTimeContributor),
	)

	fmt.Fprintf(command.OutOrStdout(), contributorOutputTemplateConstant, result.Login, result.FirstTimeContributor)

	return nil
}

func (builder *ContributorCommandBuilder) resolveService(logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	executor, executorError := resolveGitHubExecutor(builder.GitHubExecutor, logger, humanReadableLoggingEnabled(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return nil, executorError
	}
	return resolveService(executor, configuration)
}
