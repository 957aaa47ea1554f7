package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/prkit/prkit/internal/execshell"
)

const (
	pullRequestSubcommandConstant           = "pr"
	commentSubcommandConstant               = "comment"
	viewSubcommandConstant                  = "view"
	editSubcommandConstant                  = "edit"
	apiSubcommandConstant                   = "api"
	graphQLEndpointConstant                 = "graphql"
	bodyFileFlagConstant                    = "--body-file"
	editLastFlagConstant                    = "--edit-last"
	jsonFlagConstant                        = "--json"
	jqFlagConstant                          = "--jq"
	addLabelFlagConstant                    = "--add-label"
	removeLabelFlagConstant                 = "--remove-label"
	rawFieldFlagConstant                    = "-f"
	typedFieldFlagConstant                  = "-F"
	commentsJSONFieldConstant               = "comments"
	pullRequestNumberFieldNameConstant      = "pull_request_number"
	bodyFilePathFieldNameConstant           = "body_file_path"
	authorLoginFieldNameConstant            = "author_login"
	signMarkerFieldNameConstant             = "sign_marker"
	labelsFieldNameConstant                 = "labels"
	repositoryOwnerFieldNameConstant        = "repository_owner"
	repositoryNameFieldNameConstant         = "repository_name"
	requiredValueMessageConstant            = "value required"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	positiveValueMessageConstant            = "positive value required"
	authTokenEnvironmentVariableConstant    = "GH_TOKEN"
	noColorEnvironmentVariableConstant      = "NO_COLOR"
	noColorEnvironmentValueConstant         = "true"
	trueOutputLiteralConstant               = "true"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	missingAssociationMessageConstant       = "author association missing from response"
	firstTimeContributorAssociationConstant = "FIRST_TIME_CONTRIBUTOR"
	queryFieldArgumentTemplateConstant      = "query=%s"
	ownerFieldArgumentTemplateConstant      = "owner=%s"
	nameFieldArgumentTemplateConstant       = "name=%s"
	numberFieldArgumentTemplateConstant     = "number=%d"
	commentMatchQueryTemplateConstant       = `any(.comments[]; .author.login == %q and (.body | contains(%q)))`
	createCommentOperationNameConstant      = OperationName("CreateComment")
	commentMatchOperationNameConstant       = OperationName("CommentMatchExists")
	editLabelsOperationNameConstant         = OperationName("EditLabels")
	contributorStatusOperationNameConstant  = OperationName("ResolveContributorStatus")
)

const contributorStatusGraphQLQueryConstant = `query($owner: String!, $name: String!, $number: Int!) {
  repository(owner: $owner, name: $name) {
    pullRequest(number: $number) {
      author { login }
      authorAssociation
    }
  }
}`

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// CommentCreateOptions configures CreateComment invocations.
type CommentCreateOptions struct {
	PullRequestNumber int
	BodyFilePath      string
	EditLast          bool
}

// CommentQueryOptions configures CommentMatchExists invocations.
type CommentQueryOptions struct {
	PullRequestNumber int
	AuthorLogin       string
	SignMarker        string
}

// LabelEditOptions configures EditLabels invocations. Additions take precedence:
// when AddLabels is non-empty the removal set is never forwarded to gh.
type LabelEditOptions struct {
	PullRequestNumber int
	AddLabels         []string
	RemoveLabels      []string
}

// ContributorQueryOptions configures ResolveContributorStatus invocations.
type ContributorQueryOptions struct {
	RepositoryOwner   string
	RepositoryName    string
	PullRequestNumber int
}

// ContributorStatus reports the pull request author and their contribution history classification.
type ContributorStatus struct {
	Login                string
	FirstTimeContributor bool
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor             GitHubCommandExecutor
	environmentVariables map[string]string
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// SetAuthenticationToken forwards the provided token to gh through its environment.
func (client *Client) SetAuthenticationToken(authenticationToken string) {
	if client == nil {
		return
	}

	trimmedToken := strings.TrimSpace(authenticationToken)
	if len(trimmedToken) == 0 {
		client.environmentVariables = nil
		return
	}

	client.environmentVariables = map[string]string{authTokenEnvironmentVariableConstant: trimmedToken}
}

// CreateComment posts a comment on a pull request using gh pr comment, optionally amending the last comment.
func (client *Client) CreateComment(executionContext context.Context, options CommentCreateOptions) error {
	if options.PullRequestNumber <= 0 {
		return InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	bodyFilePath := strings.TrimSpace(options.BodyFilePath)
	if len(bodyFilePath) == 0 {
		return InvalidInputError{FieldName: bodyFilePathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{
		pullRequestSubcommandConstant,
		commentSubcommandConstant,
		strconv.Itoa(options.PullRequestNumber),
		bodyFileFlagConstant,
		bodyFilePath,
	}
	if options.EditLast {
		commandArguments = append(commandArguments, editLastFlagConstant)
	}

	_, executionError := client.executeGitHubCLI(executionContext, commandArguments)
	if executionError != nil {
		return OperationError{Operation: createCommentOperationNameConstant, Cause: executionError}
	}

	return nil
}

// CommentMatchExists reports whether any pull request comment authored by the
// supplied login contains the sign marker. The structured query emits a
// boolean as text; only output starting with "true" counts as a match.
func (client *Client) CommentMatchExists(executionContext context.Context, options CommentQueryOptions) (bool, error) {
	if options.PullRequestNumber <= 0 {
		return false, InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	authorLogin := strings.TrimSpace(options.AuthorLogin)
	if len(authorLogin) == 0 {
		return false, InvalidInputError{FieldName: authorLoginFieldNameConstant, Message: requiredValueMessageConstant}
	}

	signMarker := options.SignMarker
	if len(strings.TrimSpace(signMarker)) == 0 {
		return false, InvalidInputError{FieldName: signMarkerFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{
		pullRequestSubcommandConstant,
		viewSubcommandConstant,
		strconv.Itoa(options.PullRequestNumber),
		jsonFlagConstant,
		commentsJSONFieldConstant,
		jqFlagConstant,
		fmt.Sprintf(commentMatchQueryTemplateConstant, authorLogin, signMarker),
	}

	executionResult, executionError := client.executeGitHubCLI(executionContext, commandArguments)
	if executionError != nil {
		return false, OperationError{Operation: commentMatchOperationNameConstant, Cause: executionError}
	}

	return strings.HasPrefix(executionResult.StandardOutput, trueOutputLiteralConstant), nil
}

// EditLabels mutates the label set of a pull request using gh pr edit.
func (client *Client) EditLabels(executionContext context.Context, options LabelEditOptions) error {
	if options.PullRequestNumber <= 0 {
		return InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	labelFlag := addLabelFlagConstant
	labels := options.AddLabels
	if len(labels) == 0 {
		labelFlag = removeLabelFlagConstant
		labels = options.RemoveLabels
	}
	if len(labels) == 0 {
		return InvalidInputError{FieldName: labelsFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandArguments := []string{
		pullRequestSubcommandConstant,
		editSubcommandConstant,
		strconv.Itoa(options.PullRequestNumber),
	}
	for _, labelName := range labels {
		commandArguments = append(commandArguments, labelFlag, labelName)
	}

	_, executionError := client.executeGitHubCLI(executionContext, commandArguments)
	if executionError != nil {
		return OperationError{Operation: editLabelsOperationNameConstant, Cause: executionError}
	}

	return nil
}

// ResolveContributorStatus queries the pull request author login and
// association classification through the gh GraphQL endpoint.
func (client *Client) ResolveContributorStatus(executionContext context.Context, options ContributorQueryOptions) (ContributorStatus, error) {
	repositoryOwner := strings.TrimSpace(options.RepositoryOwner)
	if len(repositoryOwner) == 0 {
		return ContributorStatus{}, InvalidInputError{FieldName: repositoryOwnerFieldNameConstant, Message: requiredValueMessageConstant}
	}

	repositoryName := strings.TrimSpace(options.RepositoryName)
	if len(repositoryName) == 0 {
		return ContributorStatus{}, InvalidInputError{FieldName: repositoryNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	if options.PullRequestNumber <= 0 {
		return ContributorStatus{}, InvalidInputError{FieldName: pullRequestNumberFieldNameConstant, Message: positiveValueMessageConstant}
	}

	commandArguments := []string{
		apiSubcommandConstant,
		graphQLEndpointConstant,
		rawFieldFlagConstant,
		fmt.Sprintf(queryFieldArgumentTemplateConstant, contributorStatusGraphQLQueryConstant),
		rawFieldFlagConstant,
		fmt.Sprintf(ownerFieldArgumentTemplateConstant, repositoryOwner),
		rawFieldFlagConstant,
		fmt.Sprintf(nameFieldArgumentTemplateConstant, repositoryName),
		typedFieldFlagConstant,
		fmt.Sprintf(numberFieldArgumentTemplateConstant, options.PullRequestNumber),
	}

	executionResult, executionError := client.executeGitHubCLI(executionContext, commandArguments)
	if executionError != nil {
		return ContributorStatus{}, OperationError{Operation: contributorStatusOperationNameConstant, Cause: executionError}
	}

	var response struct {
		Data struct {
			Repository struct {
				PullRequest struct {
					Author struct {
						Login string `json:"login"`
					} `json:"author"`
					AuthorAssociation string `json:"authorAssociation"`
				} `json:"pullRequest"`
			} `json:"repository"`
		} `json:"data"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return ContributorStatus{}, ResponseDecodingError{Operation: contributorStatusOperationNameConstant, Cause: decodingError}
	}

	association := strings.TrimSpace(response.Data.Repository.PullRequest.AuthorAssociation)
	if len(association) == 0 {
		return ContributorStatus{}, ResponseDecodingError{Operation: contributorStatusOperationNameConstant, Cause: errors.New(missingAssociationMessageConstant)}
	}

	return ContributorStatus{
		Login:                response.Data.Repository.PullRequest.Author.Login,
		FirstTimeContributor: strings.EqualFold(association, firstTimeContributorAssociationConstant),
	}, nil
}

// executeGitHubCLI forwards the accumulated environment to gh. NO_COLOR is
// always set so parsed output stays free of ANSI escapes.
func (client *Client) executeGitHubCLI(executionContext context.Context, commandArguments []string) (execshell.ExecutionResult, error) {
	commandDetails := execshell.CommandDetails{
		Arguments: commandArguments,
		EnvironmentVariables: map[string]string{
			noColorEnvironmentVariableConstant: noColorEnvironmentValueConstant,
		},
	}
	for environmentKey, environmentValue := range client.environmentVariables {
		commandDetails.EnvironmentVariables[environmentKey] = environmentValue
	}
	return client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
}
