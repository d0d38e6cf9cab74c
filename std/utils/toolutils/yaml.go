package toolutils

import (
	"os"

	"github.com/goccy/go-yaml"
)

// ReadYaml reads filename and unmarshals it into out, exiting the process
// on any read or parse error since it is only ever called during startup.
func ReadYaml(out any, filename string) {
	content, err := os.ReadFile(filename)
	if err != nil {
		panic(err)
	}
	if err := yaml.Unmarshal(content, out); err != nil {
		panic(err)
	}
}
