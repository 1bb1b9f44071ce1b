package main

import (
	// Register Plugins via side-effects
	_ "subclash/internal/publishers/file"
	_ "subclash/internal/publishers/stdout"
	_ "subclash/internal/sources/file"
	_ "subclash/internal/sources/http"
)

func main() {
	Execute()
}
