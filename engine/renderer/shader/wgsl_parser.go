package shader

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	structRegex   = regexp.MustCompile(`\bstruct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex = regexp.MustCompile(`@location\(\s*(\d+)\s*\)`)
	builtinRegex  = regexp.MustCompile(`@builtin\(`)
	attrRegex     = regexp.MustCompile(`@\w+(?:\([^)]*\))?`)

	// entryRegex allows further attributes (e.g. @workgroup_size) between the stage and fn.
	entryRegex = regexp.MustCompile(`@(vertex|fragment)\b(?:\s*@\w+(?:\([^)]*\))?)*\s*fn\s+(\w+)`)

	// resourceRegex: @group(0) @binding(3) var<uniform> lighting: LightingUniform;
	resourceRegex = regexp.MustCompile(`@group\(\s*(\d+)\s*\)\s*@binding\(\s*(\d+)\s*\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

var stageAttributes = map[string]ShaderType{
	"vertex":   ShaderTypeVertex,
	"fragment": ShaderTypeFragment,
}

// reflectModule extracts struct declarations, bound resources and entry points from WGSL source.
// Comments are removed first so commented-out declarations are ignored.
//
// Parameters:
//   - source: the raw WGSL source code string
//
// Returns:
//   - moduleInfo: the declarations found
func reflectModule(source string) moduleInfo {
	code := stripComments(source)
	info := moduleInfo{entryPoints: make(map[ShaderType]string)}

	for _, m := range structRegex.FindAllStringSubmatch(code, -1) {
		info.structs = append(info.structs, structDecl{name: m[1], members: parseMembers(m[2])})
	}

	for _, m := range resourceRegex.FindAllStringSubmatch(code, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		info.resources = append(info.resources, resourceDecl{
			group:    group,
			binding:  binding,
			space:    strings.ReplaceAll(strings.TrimSpace(m[3]), " ", ""),
			name:     m[4],
			typeName: compactType(m[5]),
		})
	}

	for _, m := range entryRegex.FindAllStringSubmatch(code, -1) {
		stage := stageAttributes[m[1]]
		if _, seen := info.entryPoints[stage]; !seen {
			info.entryPoints[stage] = m[2]
		}
	}
	return info
}

// parseMembers splits a struct body into members. Commas inside <...> belong to the type.
func parseMembers(body string) []structMember {
	var members []structMember
	for _, part := range splitAtTopLevelCommas(body) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := structMember{location: -1, builtin: builtinRegex.MatchString(part)}
		if loc := locationRegex.FindStringSubmatch(part); loc != nil {
			m.location, _ = strconv.Atoi(loc[1])
		}

		name, typeName, ok := strings.Cut(attrRegex.ReplaceAllString(part, ""), ":")
		if !ok {
			continue
		}
		m.name = strings.TrimSpace(name)
		m.typeName = compactType(typeName)
		members = append(members, m)
	}
	return members
}

// compactType removes whitespace so "array<f32, 4>" and "array<f32,4>" compare equal.
func compactType(t string) string {
	return strings.Join(strings.Fields(t), "")
}

// splitAtTopLevelCommas splits s at commas that are not nested inside angle brackets.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes // line comments and nested /* */ block comments.
// Removed text is replaced by a single space so tokens on either side stay apart.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		switch {
		case strings.HasPrefix(source[i:], "/*"):
			depth++
			i++
		case depth > 0 && strings.HasPrefix(source[i:], "*/"):
			depth--
			i++
			if depth == 0 {
				sb.WriteByte(' ')
			}
		case depth > 0:
		case strings.HasPrefix(source[i:], "//"):
			end := strings.IndexByte(source[i:], '\n')
			if end < 0 {
				return sb.String()
			}
			i += end - 1
		default:
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
