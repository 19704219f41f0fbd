package main

import (
	"bufio"
	"flag"
	"log"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"gitlab.com/dirk.krummacker/contacts-api/internal/config"
	"gitlab.com/dirk.krummacker/contacts-api/internal/service"
)

// Usage example on the command line:
// > CONTACTS_DATABASE_HOST=localhost:3306 CONTACTS_DATABASE_USER=dirk CONTACTS_DATABASE_PASSWORD=bullo92 go run main.go -file=../../scripts/database.sql
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("could not load configuration: ", err)
	}
	sqlDB := service.CreateDatabase(cfg.Database)
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		panic(err)
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			sql := builder.String()
			db.MustExec(sql)
			builder = strings.Builder{}
		}
	}
}
