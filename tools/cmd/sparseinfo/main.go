// Command sparseinfo inspects, renders and exports binary sparse models.
package main

import (
	"os"
)

func main() {
	os.Exit(execute())
}
