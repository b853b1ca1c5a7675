// Package web 看板页面模板（编译期嵌入）
package web

import (
	"embed"
	"html/template"
	"strings"

	"github.com/RNikdata/RAB/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates 解析全部页面模板；文件名即模板名（board.html、login.html）
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Funcs 模板函数
func Funcs() template.FuncMap {
	return template.FuncMap{
		"contains": func(list []string, v string) bool {
			for _, s := range list {
				if strings.EqualFold(s, v) {
					return true
				}
			}
			return false
		},
		"join": strings.Join,
		"statusClass": func(s string) string {
			switch model.RequestStatus(s) {
			case model.StatusApproved:
				return "approved"
			case model.StatusRejected:
				return "rejected"
			default:
				return "pending"
			}
		},
		"orBlank": func(s string) string {
			if strings.TrimSpace(s) == "" {
				return "-"
			}
			return s
		},
	}
}
