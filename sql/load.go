package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed nodes.sql
var nodesSQL string

//go:embed edges.sql
var edgesSQL string

//go:embed queries.sql
var queriesSQL string

//go:embed feedback.sql
var feedbackSQL string

// Function lists for verification
var NodesFunctions = []string{
	"init_nodes",
	"insert_node",
	"select_node",
	"select_all_nodes",
	"select_nodes_by_type",
	"update_node",
	"delete_node",
}

var EdgesFunctions = []string{
	"init_edges",
	"insert_edge",
	"select_edge",
	"select_all_edges",
	"select_edges_from_node",
	"update_edge_weight",
	"delete_edge",
}

var QueriesFunctions = []string{
	"init_queries",
	"insert_query",
	"select_query",
	"select_recent_queries",
	"select_all_queries",
}

var FeedbackFunctions = []string{
	"init_feedback",
	"insert_feedback",
	"select_feedback_by_query",
	"select_all_feedback",
}

// Init creates the shared trigger functions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing init SQL: %w", err)
	}

	log.Println("Database helpers initialized successfully")
	return nil
}

// LoadNodesSql loads node-related SQL functions
func LoadNodesSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "nodes", nodesSQL, NodesFunctions, force)
}

// LoadEdgesSql loads edge-related SQL functions
func LoadEdgesSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "edges", edgesSQL, EdgesFunctions, force)
}

// LoadQueriesSql loads query audit log SQL functions
func LoadQueriesSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "queries", queriesSQL, QueriesFunctions, force)
}

// LoadFeedbackSql loads feedback-related SQL functions
func LoadFeedbackSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "feedback", feedbackSQL, FeedbackFunctions, force)
}

// LoadAllSql loads all SQL functions
func LoadAllSql(db *sql.DB, force bool) error {
	if err := Init(db); err != nil {
		return err
	}

	if err := LoadNodesSql(db, force); err != nil {
		return err
	}

	if err := LoadEdgesSql(db, force); err != nil {
		return err
	}

	if err := LoadQueriesSql(db, force); err != nil {
		return err
	}

	if err := LoadFeedbackSql(db, force); err != nil {
		return err
	}

	return nil
}

// loadFunctions executes the script unless force is false and all functions already exist
func loadFunctions(db *sql.DB, name string, script string, sqlFunctions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, sqlFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, sqlFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Printf("SQL %s functions loaded successfully", name)
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
