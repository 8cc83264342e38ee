package ss2wp

// FilenameScheme selects how local image filenames are derived.
type FilenameScheme string

// Supported filename schemes.
const (
	SchemeUniqueID FilenameScheme = "unique-id"
	SchemeHash     FilenameScheme = "hash"
	SchemeTitle    FilenameScheme = "title-derived"
)

// OutputTarget selects where the rendered HTML is written.
type OutputTarget string

// Supported output targets.
const (
	TargetFile   OutputTarget = "file"
	TargetStdout OutputTarget = "stdout"
)

// Defaults for Options.
const (
	DefaultPrefixLength = 10
	DefaultFolderLength = 15
	DefaultImageDir     = "images"
)

// Options configures a conversion.
type Options struct {
	// PlaceholderImages renders each image as a literal marker paragraph
	// instead of an <img> tag.
	PlaceholderImages bool

	// SuppressFirstImage omits the image with ordinal 0 from the output.
	SuppressFirstImage bool

	FilenameScheme FilenameScheme
	OutputTarget   OutputTarget

	// PrefixLength bounds the title prefix of title-derived image names.
	// Zero means no truncation.
	PrefixLength int

	// FolderLength bounds the title-derived output folder name.
	// Zero means no truncation.
	FolderLength int

	// ImageDir is the directory, relative to the HTML file, holding images.
	ImageDir string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		FilenameScheme: SchemeTitle,
		OutputTarget:   TargetFile,
		PrefixLength:   DefaultPrefixLength,
		FolderLength:   DefaultFolderLength,
		ImageDir:       DefaultImageDir,
	}
}

// Validate returns an error if the options contain invalid fields.
func (o *Options) Validate() error {
	switch o.FilenameScheme {
	case SchemeUniqueID, SchemeHash, SchemeTitle:
	default:
		return Errorf(EINVALID, "unknown filename scheme %q", o.FilenameScheme)
	}
	switch o.OutputTarget {
	case TargetFile, TargetStdout:
	default:
		return Errorf(EINVALID, "unknown output target %q", o.OutputTarget)
	}
	if o.PrefixLength < 0 {
		return Errorf(EINVALID, "prefix length must not be negative")
	}
	if o.FolderLength < 0 {
		return Errorf(EINVALID, "folder length must not be negative")
	}
	if o.ImageDir == "" {
		return Errorf(EINVALID, "image directory required")
	}
	return nil
}
