package web

import (
	"bytes"
	"strings"
	"testing"
)

func TestTemplates_Parse(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("解析模板失败: %v", err)
	}
	for _, name := range []string{"board.html", "login.html", "header", "footer"} {
		if tmpl.Lookup(name) == nil {
			t.Errorf("缺少模板 %s", name)
		}
	}
}

func TestLoginTemplate_EscapesInput(t *testing.T) {
	tmpl, err := Templates()
	if err != nil {
		t.Fatalf("解析模板失败: %v", err)
	}
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "login.html", map[string]interface{}{
		"Next":     "/",
		"Username": `<script>alert(1)</script>`,
		"Error":    "用户名或密码错误",
	})
	if err != nil {
		t.Fatalf("渲染失败: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)") {
		t.Error("用户输入应被转义")
	}
}

func TestFuncs(t *testing.T) {
	f := Funcs()
	contains := f["contains"].(func([]string, string) bool)
	if !contains([]string{"Unbilled"}, "unbilled") {
		t.Error("contains 应忽略大小写")
	}
	statusClass := f["statusClass"].(func(string) string)
	if statusClass("Approved") != "approved" || statusClass("") != "pending" {
		t.Error("statusClass 映射不正确")
	}
	orBlank := f["orBlank"].(func(string) string)
	if orBlank("  ") != "-" {
		t.Error("空值应显示为 -")
	}
}
