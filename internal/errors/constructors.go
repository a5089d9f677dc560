package errors

import "fmt"

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *NavError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithKind(ErrInvalidConfig).
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *NavError {
	return New(CategoryValidation, SeverityFatal, fmt.Sprintf("%s: %s", field, reason)).
		WithKind(ErrInvalidConfig).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Tree errors

// MissingRootPage reports a locale prefix without a page at exactly that path.
func MissingRootPage(prefix string) *NavError {
	msg := fmt.Sprintf(
		"your page tree does not have a root page for %q; it should be placed in the directory as %sindex.md or %sREADME.md",
		prefix, prefix, prefix)
	return New(CategoryConfig, SeverityFatal, msg).
		WithKind(ErrMissingRootPage).
		WithContext("prefix", prefix).
		WithContext("expected", []string{prefix + "index.md", prefix + "README.md"})
}

func EmptyPagePath(path, prefix string) *NavError {
	return New(CategoryConfig, SeverityFatal, fmt.Sprintf("page %q has no path segments below prefix %q", path, prefix)).
		WithKind(ErrEmptyPagePath).
		WithContext("page", path).
		WithContext("prefix", prefix)
}

func MissingParent(path, key string) *NavError {
	return New(CategoryTree, SeverityFatal, fmt.Sprintf("page %q has no parent node for segment %q", path, key)).
		WithKind(ErrMissingParent).
		WithContext("page", path).
		WithContext("segment", key)
}

func DuplicateKey(path, key, existing string) *NavError {
	return New(CategoryTree, SeverityFatal, fmt.Sprintf("page %q duplicates sibling key %q", path, key)).
		WithKind(ErrDuplicateKey).
		WithContext("page", path).
		WithContext("key", key).
		WithContext("existing", existing)
}

// Export errors

func MissingDirectionalBranch(missing ...string) *NavError {
	return New(CategoryFormat, SeverityFatal, "at least one of the directed (left/right) nodes must exist").
		WithKind(ErrMissingDirectionalBranch).
		WithContext("missing", missing)
}

// Filesystem and plugin errors

func FileSystemError(operation, path string, cause error) *NavError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, operation+" failed").
		WithContext("path", path)
}

func PluginFailed(plugin, hook string, cause error) *NavError {
	return Wrap(cause, CategoryPlugin, SeverityFatal, fmt.Sprintf("plugin %s failed during %s", plugin, hook)).
		WithContext("plugin", plugin).
		WithContext("hook", hook)
}

// Internal errors

func InternalError(message string, cause error) *NavError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
