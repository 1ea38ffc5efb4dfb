//go:build !tinygo

// The kiln firmware targets the XIAO SAMD21 and must be built with
// tinygo (see the go:generate directive in main.go). This stub keeps
// the directory buildable with the standard toolchain.
package main

import "log"

func main() {
	log.Fatal("firmware must be built with tinygo: tinygo flash -target=xiao ./firmware")
}
