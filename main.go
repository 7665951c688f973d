/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/gmaffy/binning-whisperer/cmd"

func main() {
	cmd.Execute()
}
