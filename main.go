/*
Copyright © 2026 ADHD Framework Authors
*/
package main

import "github.com/adhd-framework/uvmigrate/cmd"

func main() {
	cmd.Execute()
}
