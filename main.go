// The main package for the blogfeed executable.
package main

import (
	"github.com/mkweon/blogfeed-crawler/cmd"
)

func main() {
	cmd.Execute()
}
