package annotate

import (
	"go.uber.org/zap"

	"github.com/prkit/prkit/internal/execshell"
	"github.com/prkit/prkit/internal/githubcli"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

func resolveLogger(loggerProvider LoggerProvider) *zap.Logger {
	if loggerProvider == nil {
		return zap.NewNop()
	}
	logger := loggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveGitHubExecutor(executor githubcli.GitHubCommandExecutor, logger *zap.Logger, humanReadableLogging bool) (githubcli.GitHubCommandExecutor, error) {
	if executor != nil {
		return executor, nil
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), humanReadableLogging)
}

func resolveService(executor githubcli.GitHubCommandExecutor, configuration CommandConfiguration) (*Service, error) {
	client, clientError := githubcli.NewClient(executor)
	if clientError != nil {
		return nil, clientError
	}
	if len(configuration.AuthenticationToken) > 0 {
		client.SetAuthenticationToken(configuration.AuthenticationToken)
	}
	return NewService(Dependencies{GitHubClient: client, BodyStore: NewOSCommentBodyStore()})
}
