package plugin

// Hook names used in logs, metrics and errors.
const (
	HookValidate        = "validate"
	HookReady           = "ready"
	HookEnhanceAppFiles = "enhance_app_files"
)

// stageName labels a plugin hook in metrics ("generate-tree/ready").
func stageName(plugin, hook string) string {
	return plugin + "/" + hook
}
