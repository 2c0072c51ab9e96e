// Command simstats ingests simulation statistics dumps and reports
// aggregations and bar chart layouts described by a YAML analysis file.
package main

func main() {
	Execute()
}
