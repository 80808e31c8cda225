package codegen

import "path/filepath"

// controllerPath returns the router module file for a module name
func controllerPath(outputDir, module string) string {
	return filepath.Join(outputDir, ControllersDir, module+FileExtension)
}
