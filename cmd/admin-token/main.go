package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"lumen/config"
	"lumen/internal/handlers/middleware"
	. "lumen/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

func main() {
	log := logger.New("adminToken").Function("main")

	subject := flag.String("subject", "admin@lumen.local", "token subject, usually the staff email")
	role := flag.String("role", string(UserRoleAdmin), "ADMIN or STAFF")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	config, err := config.New()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	if config.AdminJWTSecret == "" {
		log.Error("ADMIN_JWT_SECRET is not set, admin routes are open")
		os.Exit(1)
	}

	staffRole := UserRole(strings.ToUpper(*role))
	if staffRole != UserRoleAdmin && staffRole != UserRoleStaff {
		log.Error("role must be ADMIN or STAFF", "role", *role)
		os.Exit(1)
	}

	token, err := middleware.IssueStaffToken(config.AdminJWTSecret, *subject, staffRole, *ttl)
	if err != nil {
		log.Er("failed to issue token", err, "role", *role)
		os.Exit(1)
	}

	fmt.Println(token)
}
