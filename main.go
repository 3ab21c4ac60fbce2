package main

import "github.com/zeozeozeo/drakkar/cmd"

func main() {
	cmd.Execute()
}
