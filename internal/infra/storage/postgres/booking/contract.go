package booking

import "github.com/KKKircheff/Auto-Bosch-GTP/pkg/txmanager"

// DBExecutor общий интерфейс для *sql.DB и *sql.Tx
type DBExecutor = txmanager.DBExecutor
