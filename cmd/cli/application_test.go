package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	commentCommandNameConstant     = "comment"
	syncCommandNameConstant        = "sync-comment"
	labelsCommandNameConstant      = "labels"
	contributorCommandNameConstant = "contributor"
)

func TestNewApplicationRegistersSubcommands(testInstance *testing.T) {
	application := NewApplication()

	registeredNames := map[string]bool{}
	for _, registeredCommand := range application.rootCommand.Commands() {
		registeredNames[registeredCommand.Name()] = true
	}

	expectedNames := []string{
		commentCommandNameConstant,
		syncCommandNameConstant,
		labelsCommandNameConstant,
		contributorCommandNameConstant,
	}
	for _, expectedName := range expectedNames {
		require.True(testInstance, registeredNames[expectedName], expectedName)
	}
}

func TestReadEnvironmentValues(testInstance *testing.T) {
	testCases := []struct {
		name                        string
		pullRequestNumberValue      string
		authTokenValue              string
		fallbackTokenValue          string
		repositoryValue             string
		expectedPullRequestNumber   int
		expectedAuthenticationToken string
		expectedRepository          string
	}{
		{
			name:                        "all_values_present",
			pullRequestNumberValue:      "42",
			authTokenValue:              "primary-token",
			fallbackTokenValue:          "fallback-token",
			repositoryValue:             "octo-org/example",
			expectedPullRequestNumber:   42,
			expectedAuthenticationToken: "primary-token",
			expectedRepository:          "octo-org/example",
		},
		{
			name:                        "fallback_token_used",
			fallbackTokenValue:          "fallback-token",
			expectedAuthenticationToken: "fallback-token",
		},
		{
			name:                   "malformed_pull_request_number_ignored",
			pullRequestNumberValue: "not-a-number",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			testInstance.Setenv(pullRequestNumberEnvironmentConstant, testCase.pullRequestNumberValue)
			testInstance.Setenv(authTokenEnvironmentConstant, testCase.authTokenValue)
			testInstance.Setenv(fallbackTokenEnvironmentConstant, testCase.fallbackTokenValue)
			testInstance.Setenv(repositoryEnvironmentConstant, testCase.repositoryValue)

			environmentValues := readEnvironmentValues()

			require.Equal(testInstance, testCase.expectedPullRequestNumber, environmentValues.PullRequestNumber)
			require.Equal(testInstance, testCase.expectedAuthenticationToken, environmentValues.AuthenticationToken)
			require.Equal(testInstance, testCase.expectedRepository, environmentValues.Repository)
		})
	}
}

func TestApplyEnvironmentValuesRespectsConfiguredEntries(testInstance *testing.T) {
	application := &Application{
		environmentValues: EnvironmentValues{
			PullRequestNumber:   42,
			AuthenticationToken: "environment-token",
			Repository:          "octo-org/environment",
		},
	}
	application.configuration.Tools.Annotate.PullRequestNumber = 7
	application.configuration.Tools.Annotate.Repository = "octo-org/configured"

	application.applyEnvironmentValues()

	require.Equal(testInstance, 7, application.configuration.Tools.Annotate.PullRequestNumber)
	require.Equal(testInstance, "octo-org/configured", application.configuration.Tools.Annotate.Repository)
	require.Equal(testInstance, "environment-token", application.configuration.Tools.Annotate.AuthenticationToken)
}

func TestApplyEnvironmentValuesFillsMissingEntries(testInstance *testing.T) {
	application := &Application{
		environmentValues: EnvironmentValues{
			PullRequestNumber:   42,
			AuthenticationToken: "environment-token",
			Repository:          "octo-org/environment",
		},
	}

	application.applyEnvironmentValues()

	require.Equal(testInstance, 42, application.configuration.Tools.Annotate.PullRequestNumber)
	require.Equal(testInstance, "environment-token", application.configuration.Tools.Annotate.AuthenticationToken)
	require.Equal(testInstance, "octo-org/environment", application.configuration.Tools.Annotate.Repository)
}

func TestExecuteWithoutArgumentsShowsHelp(testInstance *testing.T) {
	application := NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{})

	executionError := application.Execute()

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, outputBuffer.String(), applicationNameConstant)
}
