package repoargs

type RepositoryName string

const (
	UserRepoName    RepositoryName = "user"
	ProductRepoName RepositoryName = "product"
	CartRepoName    RepositoryName = "cart"
	OrderRepoName   RepositoryName = "order"
)
