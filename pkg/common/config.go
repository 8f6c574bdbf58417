package common

type PrintOptions struct {
	Format string `yaml:"option-format,omitempty"`
	Indent int    `yaml:"option-indent,omitempty"`
	// TrimTokenOnOutput shortens long string values in display formats.
	TrimTokenOnOutput int `yaml:"option-trim-token-on-output,omitempty"`
}
