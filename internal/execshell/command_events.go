package execshell

// CommandEventObserver receives lifecycle notifications for the gh invocations
// issued through the ShellExecutor. The executor calls observers from the
// executing goroutine and never concurrently.
type CommandEventObserver interface {
	// CommandStarted fires before the gh process is launched.
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once gh exits, regardless of exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when gh could not be launched at all.
	CommandExecutionFailed(command ShellCommand, failure error)
}

var _ CommandEventObserver = noopCommandEventObserver{}

// noopCommandEventObserver stands in until a real observer is registered.
type noopCommandEventObserver struct{}

func (noopCommandEventObserver) CommandStarted(ShellCommand) {}

func (noopCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (noopCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}
