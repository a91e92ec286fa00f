package main

import (
	"fmt"
	"log"
	"os"
	"time"

	authdomain "github.com/Black-And-White-Club/weighin-league/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/weighin-league/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/weighin-league/config"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:      "token",
		Usage:     "issue a bearer token for the REST API",
		ArgsUsage: "<user-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.StringFlag{Name: "role", Value: string(authdomain.RoleUser), Usage: "USER or ADMIN"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "token lifetime"},
		},
		Action: func(c *cli.Context) error {
			userID := c.Args().First()
			if userID == "" {
				return cli.Exit("user id is required", 2)
			}
			role := authdomain.Role(c.String("role"))
			if !role.IsValid() {
				return cli.Exit(fmt.Sprintf("unknown role %q", role), 2)
			}

			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			token, err := authjwt.NewProvider(cfg.JWT.Secret).GenerateToken(&authdomain.Claims{UserID: userID, Role: role}, c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
