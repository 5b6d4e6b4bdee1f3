// Comando keygen gera e persiste a chave simétrica usada pela API.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/urbanbyte/desempenho/internal/auth"
)

func main() {
	path := flag.String("out", "cipher.key", "arquivo de destino da chave (hex)")
	flag.Parse()

	if _, err := os.Stat(*path); err == nil {
		fmt.Fprintf(os.Stderr, "arquivo %s já existe; remova antes de gerar outra chave\n", *path)
		os.Exit(1)
	}

	key, err := auth.LoadOrCreateKey(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gerar chave: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("chave de %d bytes gravada em %s\n", len(key), *path)
}
