package utils

import (
	"encoding/json"
	"html"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	logger "github.com/sirupsen/logrus"
)

// GetTemplateFuncs will get the template functions
func GetTemplateFuncs() template.FuncMap {
	fm := template.FuncMap{}

	for k, v := range sprig.FuncMap() {
		fm[k] = v
	}

	customFuncs := template.FuncMap{
		"includeJSON":       IncludeJSON,
		"html":              func(x string) template.HTML { return template.HTML(x) },
		"formatEthAddress":  FormatEthAddress,
		"formatPeopleCount": FormatPeopleCount,
	}

	for k, v := range customFuncs {
		fm[k] = v
	}

	return fm
}

// IncludeJSON adds json to the page
func IncludeJSON(obj any, escapeHTML bool) template.HTML {
	b, err := json.Marshal(obj)
	if err != nil {
		logger.Printf("includeJSON - error marshalling json: %v", err)
		return ""
	}

	s := string(b)
	if escapeHTML {
		s = html.EscapeString(s)
	}
	return template.HTML(s)
}
