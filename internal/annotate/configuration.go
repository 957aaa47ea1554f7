package annotate

import "strings"

const (
	configurationKeySeparatorConstant           = "."
	pullRequestNumberConfigurationKeyConstant   = "pull_request_number"
	repositoryConfigurationKeyConstant          = "repository"
	commentAuthorConfigurationKeyConstant       = "comment_author"
	signMarkerConfigurationKeyConstant          = "sign_marker"
	authenticationTokenConfigurationKeyConstant = "auth_token"
	defaultSignMarkerConstant                   = "<!-- prkit -->"
)

// CommandConfiguration captures persisted configuration shared by the annotation commands.
type CommandConfiguration struct {
	PullRequestNumber   int    `mapstructure:"pull_request_number"`
	Repository          string `mapstructure:"repository"`
	CommentAuthor       string `mapstructure:"comment_author"`
	SignMarker          string `mapstructure:"sign_marker"`
	AuthenticationToken string `mapstructure:"auth_token"`
}

// DefaultCommandConfiguration returns baseline configuration values for annotation commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		PullRequestNumber:   0,
		Repository:          "",
		CommentAuthor:       "",
		SignMarker:          defaultSignMarkerConstant,
		AuthenticationToken: "",
	}
}

// Sanitize trims configured values without applying implicit defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.CommentAuthor = strings.TrimSpace(configuration.CommentAuthor)
	sanitized.SignMarker = strings.TrimSpace(configuration.SignMarker)
	sanitized.AuthenticationToken = strings.TrimSpace(configuration.AuthenticationToken)

	return sanitized
}

// DefaultConfigurationValues exposes annotation defaults keyed beneath the provided root key.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + pullRequestNumberConfigurationKeyConstant:   defaults.PullRequestNumber,
		rootKey + configurationKeySeparatorConstant + repositoryConfigurationKeyConstant:          defaults.Repository,
		rootKey + configurationKeySeparatorConstant + commentAuthorConfigurationKeyConstant:       defaults.CommentAuthor,
		rootKey + configurationKeySeparatorConstant + signMarkerConfigurationKeyConstant:          defaults.SignMarker,
		rootKey + configurationKeySeparatorConstant + authenticationTokenConfigurationKeyConstant: defaults.AuthenticationToken,
	}
}
