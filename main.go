/*
Copyright © 2025 GanttWing Authors
*/
package main

import "github.com/ganttwing/ganttwing/cmd"

func main() {
	cmd.Execute()
}
