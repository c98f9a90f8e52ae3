/*
Copyright © 2026 Yusuke Mori (glrev) <yusuke@glrev.dev>
*/
package main

import "github.com/glrev/glrev/cmd"

func main() {
	cmd.Execute()
}
