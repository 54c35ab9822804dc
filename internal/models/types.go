package models

// Record represents a single user document inserted by the seeder
type Record struct {
	FirstName string `json:"firstName" bson:"firstName"`
	LastName  string `json:"lastName" bson:"lastName"`
}

// InsertAck is the store acknowledgment for a batch insert
type InsertAck struct {
	InsertedCount int      `json:"inserted_count"`
	InsertedIDs   []string `json:"inserted_ids"`
}

// SeedRecords returns the fixed set of users written on every run.
// A fresh slice is returned on each call.
func SeedRecords() []Record {
	return []Record{
		{FirstName: "Syed", LastName: "Rayhan"},
		{FirstName: "Sameer", LastName: "Akmal"},
		{FirstName: "Hassan", LastName: "Khan"},
	}
}

// Documents converts records into the generic slice expected by batch inserts
func Documents(records []Record) []interface{} {
	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}
	return docs
}
