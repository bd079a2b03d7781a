package models

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleScanner Role = "SCANNER"
)
