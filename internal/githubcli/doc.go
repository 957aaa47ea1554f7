// Package githubcli wraps the GitHub CLI for prkit workflows.
//
// It layers typed request and response structures for the gh subcommands prkit
// issues against pull requests, exposes interfaces consumed by the annotation
// service, and integrates with execshell so interactions with GitHub can be
// mocked during testing.
package githubcli
