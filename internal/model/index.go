package model

// FunctionInfo describes a function or method header and the line extent of
// its body.
type FunctionInfo struct {
	Name      string `json:"name"      yaml:"name"`
	Line      int    `json:"line"      yaml:"line"`
	EndLine   int    `json:"endLine"   yaml:"endLine"`
	ClassName string `json:"className,omitempty" yaml:"className,omitempty"`
}

// IsMethod reports whether the function is defined inside a class.
func (f FunctionInfo) IsMethod() bool {
	return f.ClassName != ""
}

// ClassInfo describes a class-level block, its base names and its direct
// methods.
type ClassInfo struct {
	Name    string         `json:"name"    yaml:"name"`
	Line    int            `json:"line"    yaml:"line"`
	EndLine int            `json:"endLine" yaml:"endLine"`
	Bases   []string       `json:"bases,omitempty"   yaml:"bases,omitempty"`
	Methods []FunctionInfo `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// ParamInfo describes a hyperparameter assignment of the form
// `name = SomethingParameter(...)`, possibly spanning multiple lines.
type ParamInfo struct {
	Name     string   `json:"name"    yaml:"name"`
	Type     string   `json:"type"    yaml:"type"`
	Line     int      `json:"line"    yaml:"line"`
	EndLine  int      `json:"endLine" yaml:"endLine"`
	Args     []string `json:"args,omitempty"     yaml:"args,omitempty"`
	Default  string   `json:"default,omitempty"  yaml:"default,omitempty"`
	Space    string   `json:"space,omitempty"    yaml:"space,omitempty"`
	Optimize string   `json:"optimize,omitempty" yaml:"optimize,omitempty"`
	Segment  string   `json:"segment,omitempty"  yaml:"segment,omitempty"`
}

// Index is the structural summary of a single document.
type Index struct {
	Classes   []ClassInfo    `json:"classes"   yaml:"classes"`
	Functions []FunctionInfo `json:"functions" yaml:"functions"`
	Params    []ParamInfo    `json:"params"    yaml:"params"`
}
