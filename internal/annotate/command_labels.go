package annotate

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prkit/prkit/internal/githubcli"
)

const (
	labelsCommandUseConstant              = "labels"
	labelsCommandShortDescriptionConstant = "Add or remove labels on a pull request"
	labelsCommandLongDescriptionConstant  = "labels mutates the label set of a pull request. Additions take precedence: when labels are supplied through --add the removal set is ignored."
	addLabelsFlagNameConstant             = "add"
	addLabelsFlagDescriptionConstant      = "Labels to add to the pull request."
	removeLabelsFlagNameConstant          = "remove"
	removeLabelsFlagDescriptionConstant   = "Labels to remove from the pull request (ignored when --add is supplied)."
	labelsFailureMessageConstant          = "label update failed"
	labelsAppliedMessageConstant          = "labels updated"
	labelsSkippedMessageConstant          = "no labels supplied, nothing to do"
	logFieldAddedLabelsConstant           = "added_labels"
	logFieldRemovedLabelsConstant         = "removed_labels"
)

// LabelsCommandBuilder assembles the labels command.
type LabelsCommandBuilder struct {
	LoggerProvider               LoggerProvider
	GitHubExecutor               githubcli.GitHubCommandExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the labels command.
func (builder *LabelsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   labelsCommandUseConstant,
		Short: labelsCommandShortDescriptionConstant,
		Long:  labelsCommandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().Int(pullRequestFlagNameConstant, 0, pullRequestFlagDescriptionConstant)
	command.Flags().StringSlice(addLabelsFlagNameConstant, nil, addLabelsFlagDescriptionConstant)
	command.Flags().StringSlice(removeLabelsFlagNameConstant, nil, removeLabelsFlagDescriptionConstant)

	return command, nil
}

func (builder *LabelsCommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := resolveCommandConfiguration(builder.ConfigurationProvider)
	logger := resolveLogger(builder.LoggerProvider)

	pullRequestNumber, pullRequestError := resolvePullRequestNumber(command, configuration)
	if pullRequestError != nil {
		logger.Error(labelsFailureMessageConstant, zap.Error(pullRequestError))
		return nil
	}

	addLabels, addFlagError := command.Flags().GetStringSlice(addLabelsFlagNameConstant)
	if addFlagError != nil {
		return addFlagError
	}

	removeLabels, removeFlagError := command.Flags().GetStringSlice(removeLabelsFlagNameConstant)
	if removeFlagError != nil {
		return removeFlagError
	}

	service, serviceError := builder.resolveService(logger, configuration)
	if serviceError != nil {
		return serviceError
	}

	result, applyError := service.ApplyLabels(command.Context(), ApplyLabelsOptions{
		PullRequestNumber: pullRequestNumber,
		AddLabels:         addLabels,
		RemoveLabels:      removeLabels,
	})
	if applyError != nil {
		logger.Error(labelsFailureMessageConstant,
			zap.Int(logFieldPullRequestNumberConstant, pullRequestNumber),
			zap.Strings(logFieldAddedLabelsConstant, addLabels),
			zap.Strings(logFieldRemovedLabelsConstant, removeLabels),
			zap.Error(applyError),
		)
		return nil
	}

	if result.Skipped {
		logger.Info(labelsSkippedMessageConstant,
			zap.Int(logFieldPullRequestNumberConstant, result.PullRequestNumber),
		)
		return nil
	}

	logger.Info(labelsAppliedMessageConstant,
		zap.Int(logFieldPullRequestNumberConstant, result.PullRequestNumber),
		zap.Strings(logFieldAddedLabelsConstant, result.AppliedLabels),
		zap.Strings(logFieldRemovedLabelsConstant, result.RemovedLabels),
	)

	return nil
}

func (builder *LabelsCommandBuilder) resolveService(logger *zap.Logger, configuration CommandConfiguration) (*Service, error) {
	executor, executorError := resolveGitHubExecutor(builder.GitHubExecutor, logger, humanReadableLoggingEnabled(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return nil, executorError
	}
	return resolveService(executor, configuration)
}
