// Command token mints access tokens for local development.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/config"
	"github.com/cmlabs-hris/hrms-core-go/internal/domain/user"
	"github.com/cmlabs-hris/hrms-core-go/internal/pkg/jwt"
	"github.com/google/uuid"
)

func main() {
	userID := flag.String("user", "", "user id (random when empty)")
	employeeID := flag.String("employee", "", "employee id carried by the token")
	role := flag.String("role", string(user.RoleEmployee), "admin, manager or employee")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to JWT_ACCESS_EXPIRATION_TIME)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	actor := user.Actor{UserID: *userID, EmployeeID: *employeeID, Role: user.Role(*role)}
	if !actor.Role.Valid() {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}
	if actor.UserID == "" {
		actor.UserID = uuid.NewString()
	}

	expiration := cfg.JWT.AccessExpiration
	if *ttl > 0 {
		expiration = *ttl
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, expiration).GenerateAccessToken(actor)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error signing token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
