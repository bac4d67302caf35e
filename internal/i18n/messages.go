package i18n

// Message keys.
const (
	NewPrompt            = "newPrompt"
	Search               = "search"
	Iterate              = "iterate"
	Copy                 = "copy"
	Delete               = "delete"
	Confirm              = "confirm"
	Cancel               = "cancel"
	FileCreated          = "fileCreated"
	CreateFileFailed     = "createFileFailed"
	FileDeleted          = "fileDeleted"
	DeleteFileFailed     = "deleteFileFailed"
	IterateFailed        = "iterateFailed"
	ContentCopied        = "contentCopied"
	CopyFailed           = "copyFailed"
	OpenFailed           = "openFailed"
	NewVersionCreated    = "newVersionCreated"
	BoardActivated       = "kanbanActivated"
	BoardOpened          = "kanbanOpened"
	CannotGetFolderPath  = "cannotGetFolderPath"
	CannotOpenBoard      = "cannotOpenKanban"
	InvalidFolderPath    = "invalidFolderPath"
	Empty                = "empty"
	NoMatchingFiles      = "noMatchingFiles"
	NoMarkdownFiles      = "noMarkdownFiles"
	FolderInvalid        = "folderInvalidOrNotExists"
	ConfirmDeleteFile    = "confirmDeleteFile"
	DeleteWarning        = "deleteWarning"
	ShowQuickAccess      = "showRibbonIcon"
	ShowQuickAccessDesc  = "showRibbonIconDesc"
	GenerateBoardCommand = "generateKanbanCommand"
	QuickAccessTooltip   = "ribbonIconTooltip"
	BoardTitle           = "boardTitle"
)

var messages = map[string]map[string]string{
	LocaleEN: {
		NewPrompt:            "New Prompt",
		Search:               "Search...",
		Iterate:              "Iterate",
		Copy:                 "Copy",
		Delete:               "Delete",
		Confirm:              "Confirm Delete",
		Cancel:               "Cancel",
		FileCreated:          "File {0} created",
		CreateFileFailed:     "Failed to create file",
		FileDeleted:          `File "{0}" deleted`,
		DeleteFileFailed:     "Failed to delete file",
		IterateFailed:        "Failed to create new version",
		ContentCopied:        "Version content copied to clipboard",
		CopyFailed:           "Failed to copy to clipboard",
		OpenFailed:           "Failed to open file",
		NewVersionCreated:    "New version {0} created in file {1}",
		BoardActivated:       "Kanban view for current folder activated",
		BoardOpened:          "Kanban view opened for current folder",
		CannotGetFolderPath:  "Cannot get current folder path. Please ensure you are in an open file.",
		CannotOpenBoard:      "Cannot open kanban view. Please ensure there is available panel space.",
		InvalidFolderPath:    "Current kanban folder path is invalid",
		Empty:                "Empty",
		NoMatchingFiles:      `No files matching "{0}" found.`,
		NoMarkdownFiles:      "This folder has no Markdown files yet.",
		FolderInvalid:        "Folder {0} is invalid or does not exist.",
		ConfirmDeleteFile:    `Are you sure you want to delete file "{0}"?`,
		DeleteWarning:        "This action cannot be undone. The file will be permanently deleted.",
		ShowQuickAccess:      "Show Ribbon Icon",
		ShowQuickAccessDesc:  "Whether to show the quick button for generating kanban in the sidebar",
		GenerateBoardCommand: "Generate Kanban View for Current Folder",
		QuickAccessTooltip:   "Generate kanban view for current folder",
		BoardTitle:           "Kanban: {0}",
	},
	LocaleZH: {
		NewPrompt:            "新增",
		Search:               "搜索...",
		Iterate:              "迭代",
		Copy:                 "复制",
		Delete:               "删除文件",
		Confirm:              "确认删除",
		Cancel:               "取消",
		FileCreated:          "文件 {0} 已创建",
		CreateFileFailed:     "创建文件失败",
		FileDeleted:          `文件 "{0}" 已删除`,
		DeleteFileFailed:     "删除文件失败",
		IterateFailed:        "创建新版本失败",
		ContentCopied:        "版本内容已复制到剪贴板",
		CopyFailed:           "复制到剪贴板失败",
		OpenFailed:           "打开文件失败",
		NewVersionCreated:    "新版本 {0} 已在文件 {1} 中创建",
		BoardActivated:       "当前文件夹的看板视图已激活",
		BoardOpened:          "已为当前文件夹打开看板视图",
		CannotGetFolderPath:  "无法获取当前文件夹路径。请确保您在一个打开的文件中点击此按钮。",
		CannotOpenBoard:      "无法打开看板视图，请确保有可用的面板空间。",
		InvalidFolderPath:    "当前看板的文件夹路径无效",
		Empty:                "空空如也",
		NoMatchingFiles:      `没有找到与 "{0}" 匹配的文件。`,
		NoMarkdownFiles:      "这个文件夹还没有 Markdown 文件。",
		FolderInvalid:        "文件夹 {0} 无效或不存在。",
		ConfirmDeleteFile:    `您确定要删除文件 "{0}" 吗？`,
		DeleteWarning:        "此操作无法撤销。文件将被永久删除。",
		ShowQuickAccess:      "显示侧边栏按钮",
		ShowQuickAccessDesc:  "是否在侧边栏显示生成看板的快捷按钮",
		GenerateBoardCommand: "生成当前文件夹的看板视图",
		QuickAccessTooltip:   "生成当前文件夹的看板视图",
		BoardTitle:           "看板: {0}",
	},
}
