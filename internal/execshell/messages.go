package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	githubPullRequestSubcommandNameConstant      = "pr"
	githubPullRequestCommentSubcommandConstant   = "comment"
	githubPullRequestViewSubcommandConstant      = "view"
	githubPullRequestEditSubcommandConstant      = "edit"
	githubAPISubcommandNameConstant              = "api"
	githubGraphQLEndpointNameConstant            = "graphql"
	githubEditLastFlagNameConstant               = "--edit-last"
	githubAddLabelFlagNameConstant               = "--add-label"
	githubRemoveLabelFlagNameConstant            = "--remove-label"
	githubSubcommandArgumentMinimumCountConstant = 2
)

const (
	commentCreateStartTemplateConstant            = "Posting comment on pull request %s"
	commentCreateSuccessTemplateConstant          = "Posted comment on pull request %s"
	commentCreateFailureTemplateConstant          = "Failed to post comment on pull request %s (exit code %d%s)"
	commentCreateExecutionFailureTemplateConstant = "Unable to post comment on pull request %s: %s"
	commentAmendStartTemplateConstant             = "Amending last comment on pull request %s"
	commentAmendSuccessTemplateConstant           = "Amended last comment on pull request %s"
	commentAmendFailureTemplateConstant           = "Failed to amend last comment on pull request %s (exit code %d%s)"
	commentAmendExecutionFailureTemplateConstant  = "Unable to amend last comment on pull request %s: %s"
	commentQueryStartTemplateConstant             = "Inspecting comments on pull request %s"
	commentQuerySuccessTemplateConstant           = "Inspected comments on pull request %s"
	commentQueryFailureTemplateConstant           = "Failed to inspect comments on pull request %s (exit code %d%s)"
	commentQueryExecutionFailureTemplateConstant  = "Unable to inspect comments on pull request %s: %s"
	labelAddStartTemplateConstant                 = "Adding labels %s to pull request %s"
	labelAddSuccessTemplateConstant               = "Added labels %s to pull request %s"
	labelAddFailureTemplateConstant               = "Failed to add labels %s to pull request %s (exit code %d%s)"
	labelAddExecutionFailureTemplateConstant      = "Unable to add labels %s to pull request %s: %s"
	labelRemoveStartTemplateConstant              = "Removing labels %s from pull request %s"
	labelRemoveSuccessTemplateConstant            = "Removed labels %s from pull request %s"
	labelRemoveFailureTemplateConstant            = "Failed to remove labels %s from pull request %s (exit code %d%s)"
	labelRemoveExecutionFailureTemplateConstant   = "Unable to remove labels %s from pull request %s: %s"
	graphQLStartMessageConstant                   = "Querying pull request author metadata"
	graphQLSuccessMessageConstant                 = "Queried pull request author metadata"
	graphQLFailureTemplateConstant                = "Failed to query pull request author metadata (exit code %d%s)"
	graphQLExecutionFailureTemplateConstant       = "Unable to query pull request author metadata: %s"
	labelSeparatorConstant                        = ", "
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGitHub || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	primaryArgument := strings.TrimSpace(command.Details.Arguments[0])
	switch primaryArgument {
	case githubPullRequestSubcommandNameConstant:
		return formatter.describePullRequestCommand(command, result, failure, stage)
	case githubAPISubcommandNameConstant:
		return formatter.describeAPICommand(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePullRequestCommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < githubSubcommandArgumentMinimumCountConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(arguments[1])
	switch subcommand {
	case githubPullRequestCommentSubcommandConstant:
		return formatter.describeCommentCommand(command, result, failure, stage)
	case githubPullRequestViewSubcommandConstant:
		return formatter.describeCommentQueryCommand(command, result, failure, stage)
	case githubPullRequestEditSubcommandConstant:
		return formatter.describeLabelEditCommand(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCommentCommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	pullRequestLabel := formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, 2))
	amendsLastComment := containsArgument(command.Details.Arguments, githubEditLastFlagNameConstant)

	if amendsLastComment {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(commentAmendStartTemplateConstant, pullRequestLabel)
		case messageStageSuccess:
			return fmt.Sprintf(commentAmendSuccessTemplateConstant, pullRequestLabel)
		case messageStageFailure:
			return fmt.Sprintf(commentAmendFailureTemplateConstant, pullRequestLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(commentAmendExecutionFailureTemplateConstant, pullRequestLabel, formatter.describeFailure(failure))
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(commentCreateStartTemplateConstant, pullRequestLabel)
	case messageStageSuccess:
		return fmt.Sprintf(commentCreateSuccessTemplateConstant, pullRequestLabel)
	case messageStageFailure:
		return fmt.Sprintf(commentCreateFailureTemplateConstant, pullRequestLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(commentCreateExecutionFailureTemplateConstant, pullRequestLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCommentQueryCommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	pullRequestLabel := formatter.ensureValue(formatter.argumentAtIndex(command.Details.Arguments, 2))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(commentQueryStartTemplateConstant, pullRequestLabel)
	case messageStageSuccess:
		return fmt.Sprintf(commentQuerySuccessTemplateConstant, pullRequestLabel)
	case messageStageFailure:
		return fmt.Sprintf(commentQueryFailureTemplateConstant, pullRequestLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(commentQueryExecutionFailureTemplateConstant, pullRequestLabel, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeLabelEditCommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	pullRequestLabel := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	addedLabels := collectFlagValues(arguments, githubAddLabelFlagNameConstant)
	removedLabels := collectFlagValues(arguments, githubRemoveLabelFlagNameConstant)

	if len(addedLabels) > 0 {
		joinedLabels := strings.Join(addedLabels, labelSeparatorConstant)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(labelAddStartTemplateConstant, joinedLabels, pullRequestLabel)
		case messageStageSuccess:
			return fmt.Sprintf(labelAddSuccessTemplateConstant, joinedLabels, pullRequestLabel)
		case messageStageFailure:
			return fmt.Sprintf(labelAddFailureTemplateConstant, joinedLabels, pullRequestLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(labelAddExecutionFailureTemplateConstant, joinedLabels, pullRequestLabel, formatter.describeFailure(failure))
		}
	}

	if len(removedLabels) > 0 {
		joinedLabels := strings.Join(removedLabels, labelSeparatorConstant)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(labelRemoveStartTemplateConstant, joinedLabels, pullRequestLabel)
		case messageStageSuccess:
			return fmt.Sprintf(labelRemoveSuccessTemplateConstant, joinedLabels, pullRequestLabel)
		case messageStageFailure:
			return fmt.Sprintf(labelRemoveFailureTemplateConstant, joinedLabels, pullRequestLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(labelRemoveExecutionFailureTemplateConstant, joinedLabels, pullRequestLabel, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeAPICommand(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	endpoint := strings.TrimSpace(formatter.argumentAtIndex(command.Details.Arguments, 1))
	if endpoint != githubGraphQLEndpointNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch stage {
	case messageStageStart:
		return graphQLStartMessageConstant
	case messageStageSuccess:
		return graphQLSuccessMessageConstant
	case messageStageFailure:
		return fmt.Sprintf(graphQLFailureTemplateConstant, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(graphQLExecutionFailureTemplateConstant, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func collectFlagValues(arguments []string, flag string) []string {
	values := []string{}
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag && index+1 < len(arguments) {
			values = append(values, strings.TrimSpace(arguments[index+1]))
			index++
		}
	}
	return values
}
