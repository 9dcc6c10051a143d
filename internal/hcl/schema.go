package hcl

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot decodes every top-level construct this loader understands.
type fileRoot struct {
	Output   *outputBlock    `hcl:"output,block"`
	Primary  *string         `hcl:"primary,optional"`
	Projects []*projectBlock `hcl:"project,block"`
	Remain   hcl.Body        `hcl:",remain"`
}

// outputBlock holds the root expression, evaluated after decoding so that
// errors point at the expression itself.
type outputBlock struct {
	Root hcl.Expression `hcl:"root"`
}

// projectBlock is one `project "<name>" {}` declaration.
type projectBlock struct {
	Name      string   `hcl:"name,label"`
	DependsOn []string `hcl:"evaluation_depends_on,optional"`
}

// known lists the top-level names that are not pass-through.
var known = map[string]bool{
	"output":  true,
	"primary": true,
	"project": true,
}
