// token emite un JWT para operar la API (no hay login de usuarios).
//
// Uso: go run ./cmd/token -user u-1 -role vendedor
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/jwt"
)

func main() {
	user := flag.String("user", "", "ID del usuario (claim user_id)")
	role := flag.String("role", jwt.RoleVendedor, "rol: admin, vendedor o bodeguero")
	flag.Parse()

	switch *role {
	case jwt.RoleAdmin, jwt.RoleVendedor, jwt.RoleBodeguero:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", *role)
		os.Exit(1)
	}
	if *user == "" {
		fmt.Fprintln(os.Stderr, "-user es obligatorio")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
