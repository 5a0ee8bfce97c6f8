package settings

// Values maps section to option to the option's text.
type Values map[string]map[string]string

// Defaults holds the values every option falls back to. Numbered sections
// such as "taskviewer2" use the defaults of "taskviewer".
var Defaults = Values{
	"view": {
		"statusbar":               "True",
		"toolbar":                 "[22, 22]",
		"tasktreelistviewercount": "1",
		"language":                "en_US",
	},
	"file": {
		"lastfile":         "",
		"autosave":         "True",
		"autosavedelay":    "2s",
		"monitor":          "True",
		"inifileloaded":    "True",
		"inifileloaderror": "",
	},
	"taskviewer": {
		"title":              "",
		"sortby":             "[subject]",
		"sortascending":      "True",
		"hidecompletedtasks": "False",
	},
	"server": {
		"address":  "127.0.0.1:7780",
		"username": "",
		"password": "",
		"journal":  "200",
	},
}

// Minimum holds lower bounds for integer options.
var Minimum = Values{
	"view": {
		"tasktreelistviewercount": "1",
	},
}
