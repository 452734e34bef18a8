package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconNotifyInfo    = ""
	IconNotifyWarning = ""
	IconNotifyError   = ""
	IconLink          = ""
	IconUnlink        = ""
)
