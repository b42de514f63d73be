package main

import "budgetbot/cmd"

func main() {
	cmd.Execute()
}
