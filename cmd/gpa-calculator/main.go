package main

import "github.com/noah-isme/gpa-calculator/internal/cli"

// @title GPA Calculator API
// @version 1.0.0
// @description Guided course entry and credit-weighted GPA calculation
// @BasePath /api/v1
// @schemes http

func main() {
	cli.Execute()
}
