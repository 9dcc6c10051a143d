// Package hcl loads project declarations written in HCL and translates them
// into the format-agnostic config.Model.
//
// A declaration file looks like this:
//
//	output {
//	  root = "${workspace}/../build"
//	}
//
//	primary = "app"
//
//	project "app" {}
//
//	project "core" {
//	  evaluation_depends_on = ["app"]
//	}
//
//	repositories {
//	  maven = ["https://repo.maven.apache.org/maven2"]
//	}
//
// Expressions may reference `workspace` (the anchor directory) and `env`
// (the process environment). Any top-level block or attribute other than
// output, primary and project is kept verbatim as a config.Extension.
package hcl
