package main

import "github.com/deppfellow/newsletter-signup/internal/cli"

func main() {
	cli.Execute()
}
