package script

import (
	"regexp"
	"strings"
)

// ToolsPathToken is the reserved placeholder for the helper tools directory.
const ToolsPathToken = "TOOLS_PATH"

var tokenRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

var wslMountRe = regexp.MustCompile(`^/mnt/([a-zA-Z])(/|$)`)

// Tokens returns a unique list of placeholder identifiers referenced in s in
// order of appearance.
func Tokens(s string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, m := range tokenRe.FindAllStringSubmatch(s, -1) {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// WindowsPath renders p in backslash form. WSL mount paths such as
// /mnt/c/Apps/Tools become drive-letter paths (C:\Apps\Tools).
func WindowsPath(p string) string {
	if m := wslMountRe.FindStringSubmatch(p); m != nil {
		p = strings.ToUpper(m[1]) + `:\` + p[len(m[0]):]
	}
	return strings.ReplaceAll(p, "/", `\`)
}

// Resolve substitutes placeholders in template.
//
// {TOOLS_PATH} always becomes toolsPath in Windows form, whatever vars holds
// for that key. Every other {key} present in vars becomes its value. Tokens
// with no value are left as they are. Substituted text is never rescanned,
// so a value containing {other} stays literal.
func Resolve(template string, vars map[string]string, toolsPath string) string {
	if !strings.Contains(template, "{") {
		return template
	}
	tools := WindowsPath(toolsPath)
	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); {
		if template[i] != '{' {
			b.WriteByte(template[i])
			i++
			continue
		}
		end := closingBrace(template, i+1)
		if end < 0 {
			b.WriteByte('{')
			i++
			continue
		}
		key := template[i+1 : end]
		if key == ToolsPathToken {
			b.WriteString(tools)
			i = end + 1
			continue
		}
		if v, ok := vars[key]; ok {
			b.WriteString(v)
			i = end + 1
			continue
		}
		b.WriteByte('{')
		i++
	}
	return b.String()
}

// closingBrace returns the index of the first '}' at or after from, or -1
// when another '{' or the end of s comes first.
func closingBrace(s string, from int) int {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case '}':
			return j
		case '{':
			return -1
		}
	}
	return -1
}

// Merge flattens project defaults and instance values into one lookup.
// Instance values win for the same key.
func Merge(project map[string]Variable, instance Vars) map[string]string {
	out := make(map[string]string, len(project)+len(instance))
	for k, v := range project {
		out[k] = v.Value
	}
	for k, v := range instance {
		out[k] = v
	}
	return out
}
