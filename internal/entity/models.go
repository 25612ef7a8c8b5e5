package entity

// Models returns every persisted model, in the order the analyzer
// migrates them at startup.
func Models() []interface{} {
	return []interface{}{
		&Stock{},
		&StockPrice{},
		&StockPrediction{},
		&StockNews{},
		&AnalysisRun{},
	}
}
