package bridge

import "sort"

// Capability is one host function a plugin window may call
type Capability int

const (
	// Plugins
	CapGetPlugins Capability = iota
	CapExecutePlugin
	CapShowPlugin
	CapHidePlugin
	CapTogglePlugin
	CapGetPluginStatus
	CapUninstallPlugin
	CapSetPluginConfig

	// Configuration and application
	CapGetConfig
	CapSetConfig
	CapGetAppStatus
	CapGetSystemInfo

	// Screen
	CapCaptureScreen
	CapPerformOCR
	CapCaptureAndOCR
	CapGetScreenInfo

	// Dialogs and files
	CapShowOpenDialog
	CapShowSaveDialog
	CapReadFile
	CapWriteFile
	CapFileExists
	CapCreateDirectory
	CapListDirectory
	CapGetFileInfo
	CapDeleteFile
	CapCopyFile
	CapMoveFile

	// The caller's own window
	CapMinimizeWindow
	CapMaximizeWindow
	CapShowWindow
	CapHideWindow

	// Key-value storage
	CapGetDbValue
	CapSetDbValue
	CapDeleteDbValue

	// Clipboard
	CapReadClipboard
	CapWriteClipboard
	CapReadClipboardImage
	CapWriteClipboardImage

	// Input simulation
	CapTypeText
	CapPressKeys
	CapMoveMouse
	CapClickMouse

	// Desktop
	CapShowNotification
	CapOpenExternal

	// Utilities
	CapGenerateUUID
	CapHashString
	CapEncryptText
	CapDecryptText

	capabilityCount
)

// capabilityNames is indexed by Capability
var capabilityNames = [capabilityCount]string{
	CapGetPlugins:          "getPlugins",
	CapExecutePlugin:       "executePlugin",
	CapShowPlugin:          "showPlugin",
	CapHidePlugin:          "hidePlugin",
	CapTogglePlugin:        "togglePlugin",
	CapGetPluginStatus:     "getPluginStatus",
	CapUninstallPlugin:     "uninstallPlugin",
	CapSetPluginConfig:     "setPluginConfig",
	CapGetConfig:           "getConfig",
	CapSetConfig:           "setConfig",
	CapGetAppStatus:        "getAppStatus",
	CapGetSystemInfo:       "getSystemInfo",
	CapCaptureScreen:       "captureScreen",
	CapPerformOCR:          "performOCR",
	CapCaptureAndOCR:       "captureAndOCR",
	CapGetScreenInfo:       "getScreenInfo",
	CapShowOpenDialog:      "showOpenDialog",
	CapShowSaveDialog:      "showSaveDialog",
	CapReadFile:            "readFile",
	CapWriteFile:           "writeFile",
	CapFileExists:          "fileExists",
	CapCreateDirectory:     "createDirectory",
	CapListDirectory:       "listDirectory",
	CapGetFileInfo:         "getFileInfo",
	CapDeleteFile:          "deleteFile",
	CapCopyFile:            "copyFile",
	CapMoveFile:            "moveFile",
	CapMinimizeWindow:      "minimizeWindow",
	CapMaximizeWindow:      "maximizeWindow",
	CapShowWindow:          "showWindow",
	CapHideWindow:          "hideWindow",
	CapGetDbValue:          "getDbValue",
	CapSetDbValue:          "setDbValue",
	CapDeleteDbValue:       "deleteDbValue",
	CapReadClipboard:       "readClipboard",
	CapWriteClipboard:      "writeClipboard",
	CapReadClipboardImage:  "readClipboardImage",
	CapWriteClipboardImage: "writeClipboardImage",
	CapTypeText:            "typeText",
	CapPressKeys:           "pressKeys",
	CapMoveMouse:           "moveMouse",
	CapClickMouse:          "clickMouse",
	CapShowNotification:    "showNotification",
	CapOpenExternal:        "openExternal",
	CapGenerateUUID:        "generateUUID",
	CapHashString:          "hashString",
	CapEncryptText:         "encryptText",
	CapDecryptText:         "decryptText",
}

var capabilityByName = func() map[string]Capability {
	m := make(map[string]Capability, len(capabilityNames))
	for i, name := range capabilityNames {
		m[name] = Capability(i)
	}
	return m
}()

func (c Capability) String() string {
	if c < 0 || c >= capabilityCount {
		return "unknown"
	}
	return capabilityNames[c]
}

// Lookup resolves a capability by its exposed name
func Lookup(name string) (Capability, bool) {
	c, ok := capabilityByName[name]
	return c, ok
}

// Names lists every exposed capability name, sorted
func Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, name := range capabilityNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
