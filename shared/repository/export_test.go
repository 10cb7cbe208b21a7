package repository

func (repo *Repository[T]) SortColumn(sortBy string) (string, bool) {
	return repo.sortColumn(sortBy)
}

func (repo *Repository[T]) ConstraintFailure(err error) error {
	return repo.constraintFailure(err)
}
