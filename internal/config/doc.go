// Package config defines the format-agnostic declaration model: the output
// root, the optional primary project, the ordered project declarations and any
// opaque pass-through blocks, together with the Loader interface that format
// specific packages (hcl, yamlconfig) implement.
//
// The Model is the single input to the app package. Nothing here touches the
// project graph itself; Model.Declarations is the hand-off point.
package config
